package clinic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	return s.repo.GetSettings(ctx)
}

// SettingsInput replaces the singleton settings row wholesale. PUT semantics:
// omitted optionals are cleared, not preserved.
type SettingsInput struct {
	ClinicName      string             `json:"clinic_name"`
	CustomTerms     *string            `json:"custom_terms"`
	LLMInstructions *string            `json:"llm_instructions"`
	FeeSchedule     map[string]float64 `json:"fee_schedule"`
}

func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (*Settings, error) {
	if in.ClinicName == "" {
		return nil, fmt.Errorf("clinic_name is required")
	}
	for code, fee := range in.FeeSchedule {
		if code == "" {
			return nil, fmt.Errorf("fee_schedule keys must be billing codes")
		}
		if fee < 0 {
			return nil, fmt.Errorf("fee for %s must not be negative", code)
		}
	}

	settings := &Settings{
		ID:              1,
		ClinicName:      in.ClinicName,
		CustomTerms:     in.CustomTerms,
		LLMInstructions: in.LLMInstructions,
		FeeSchedule:     in.FeeSchedule,
	}
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) ListFormFields(ctx context.Context) ([]*FormField, error) {
	return s.repo.ListFormFields(ctx)
}

type FormFieldInput struct {
	Area         string   `json:"area"`
	Label        string   `json:"label"`
	FieldType    string   `json:"field_type"`
	Options      []string `json:"options"`
	Required     bool     `json:"required"`
	DisplayOrder int      `json:"display_order"`
}

func (s *Service) CreateFormField(ctx context.Context, in FormFieldInput) (*FormField, error) {
	if in.Area == "" {
		return nil, fmt.Errorf("area is required")
	}
	if in.Label == "" {
		return nil, fmt.Errorf("label is required")
	}
	if !validFieldTypes[in.FieldType] {
		return nil, fmt.Errorf("invalid field_type: %s", in.FieldType)
	}
	if in.FieldType == "select" && len(in.Options) == 0 {
		return nil, fmt.Errorf("select fields require options")
	}

	f := &FormField{
		Area:         in.Area,
		Label:        in.Label,
		FieldType:    in.FieldType,
		Options:      in.Options,
		Required:     in.Required,
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.repo.CreateFormField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteFormField(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.DeleteFormField(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
