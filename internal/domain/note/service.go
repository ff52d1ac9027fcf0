package note

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

// CreateInput is the encounter-save payload. Only the patient reference is
// required; a note may be created with any subset of sections filled in.
type CreateInput struct {
	PatientID    string                 `json:"patient_id"`
	DoctorID     *string                `json:"doctor_id"`
	NoteType     *string                `json:"note_type"`
	SignedStatus string                 `json:"signed_status"`
	Subjective   *string                `json:"subjective"`
	Objective    *string                `json:"objective"`
	Assessment   *string                `json:"assessment"`
	Plan         *string                `json:"plan"`
	DxCodes      []string               `json:"dx_codes"`
	BillingCodes []string               `json:"billing_codes"`
	CustomData   map[string]interface{} `json:"custom_data"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Note, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id")
	}

	n := &Note{
		PatientID:    patientID,
		NoteType:     in.NoteType,
		SignedStatus: in.SignedStatus,
		Subjective:   in.Subjective,
		Objective:    in.Objective,
		Assessment:   in.Assessment,
		Plan:         in.Plan,
		DxCodes:      in.DxCodes,
		BillingCodes: in.BillingCodes,
		CustomData:   in.CustomData,
	}
	if n.SignedStatus == "" {
		n.SignedStatus = StatusDraft
	}
	if !validStatuses[n.SignedStatus] {
		return nil, fmt.Errorf("invalid signed_status: %s", n.SignedStatus)
	}
	if in.DoctorID != nil {
		doctorID, err := uuid.Parse(*in.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("invalid doctor_id")
		}
		n.DoctorID = &doctorID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Note, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// sectionFields are the four SOAP sections; an update must touch at least one.
var sectionFields = []string{"subjective", "objective", "assessment", "plan"}

var updatableColumns = map[string]bool{
	"subjective":    true,
	"objective":     true,
	"assessment":    true,
	"plan":          true,
	"note_type":     true,
	"signed_status": true,
	"doctor_id":     true,
	"dx_codes":      true,
	"billing_codes": true,
	"custom_data":   true,
}

// Update applies a draft edit. At least one of the four text sections must be
// present; unrecognized fields are rejected.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("update payload must not be empty")
	}

	hasSection := false
	for _, f := range sectionFields {
		if _, ok := payload[f]; ok {
			hasSection = true
			break
		}
	}
	if !hasSection {
		return fmt.Errorf("update must include at least one of: subjective, objective, assessment, plan")
	}

	fields := make(map[string]interface{}, len(payload))
	for key, val := range payload {
		if !updatableColumns[key] {
			return fmt.Errorf("unrecognized field: %s", key)
		}
		checked, err := checkFieldValue(key, val)
		if err != nil {
			return err
		}
		fields[key] = checked
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func checkFieldValue(key string, val interface{}) (interface{}, error) {
	if val == nil {
		if key == "signed_status" {
			return nil, fmt.Errorf("signed_status cannot be null")
		}
		return nil, nil
	}

	switch key {
	case "signed_status":
		s, ok := val.(string)
		if !ok || !validStatuses[s] {
			return nil, fmt.Errorf("invalid signed_status")
		}
		return s, nil
	case "doctor_id":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("doctor_id must be a string")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid doctor_id")
		}
		return id, nil
	case "dx_codes", "billing_codes":
		codes, err := toStringList(val)
		if err != nil {
			return nil, fmt.Errorf("%s must be a list of strings", key)
		}
		return codes, nil
	case "custom_data":
		m, ok := val.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("custom_data must be an object")
		}
		return m, nil
	default:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		return s, nil
	}
}

// toStringList converts a decoded JSON array into []string, preserving order.
func toStringList(val interface{}) ([]string, error) {
	raw, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("not a list of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
