package patient

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

// CreateInput is the patient-intake payload. Optionals left unset are stored
// as explicit NULLs.
type CreateInput struct {
	FirstName          string                 `json:"first_name"`
	LastName           string                 `json:"last_name"`
	DateOfBirth        string                 `json:"date_of_birth"`
	MiddleInitial      *string                `json:"middle_initial"`
	PreferredName      *string                `json:"preferred_name"`
	Gender             *string                `json:"gender"`
	PhoneNumber        *string                `json:"phone_number"`
	Email              *string                `json:"email"`
	AddressLine1       *string                `json:"address_line1"`
	AddressLine2       *string                `json:"address_line2"`
	City               *string                `json:"city"`
	State              *string                `json:"state"`
	PostalCode         *string                `json:"postal_code"`
	IsMedicareEligible *bool                  `json:"is_medicare_eligible"`
	CustomData         map[string]interface{} `json:"custom_data"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if in.FirstName == "" {
		return nil, fmt.Errorf("first_name is required")
	}
	if in.LastName == "" {
		return nil, fmt.Errorf("last_name is required")
	}
	if in.DateOfBirth == "" {
		return nil, fmt.Errorf("date_of_birth is required")
	}
	dob, err := ParseDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		DateOfBirth:   dob,
		MiddleInitial: in.MiddleInitial,
		PreferredName: in.PreferredName,
		Gender:        in.Gender,
		PhoneNumber:   in.PhoneNumber,
		Email:         in.Email,
		AddressLine1:  in.AddressLine1,
		AddressLine2:  in.AddressLine2,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		CustomData:    in.CustomData,
	}
	if in.IsMedicareEligible != nil {
		p.IsMedicareEligible = *in.IsMedicareEligible
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Summary, error) {
	return s.repo.List(ctx, limit, offset)
}

// updatableColumns enumerates the recognized partial-update fields. The
// payload key doubles as the column name; anything outside this set is
// rejected rather than silently dropped.
var updatableColumns = map[string]bool{
	"first_name":           true,
	"last_name":            true,
	"middle_initial":       true,
	"preferred_name":       true,
	"date_of_birth":        true,
	"gender":               true,
	"phone_number":         true,
	"email":                true,
	"address_line1":        true,
	"address_line2":        true,
	"city":                 true,
	"state":                true,
	"postal_code":          true,
	"is_medicare_eligible": true,
	"custom_data":          true,
}

// Update applies a partial update. The payload must contain at least one
// recognized field; unrecognized fields are an error. updated_at is always
// touched by the repository.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("update payload must not be empty")
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

// checkFieldValue enforces per-field value types before anything reaches SQL.
func checkFieldValue(key string, val interface{}) (interface{}, error) {
	if val == nil {
		if key == "first_name" || key == "last_name" || key == "date_of_birth" {
			return nil, fmt.Errorf("%s cannot be null", key)
		}
		return nil, nil
	}

	switch key {
	case "date_of_birth":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("date_of_birth must be a string")
		}
		return ParseDate(s)
	case "is_medicare_eligible":
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("is_medicare_eligible must be a boolean")
		}
		return b, nil
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
		if (key == "first_name" || key == "last_name") && s == "" {
			return nil, fmt.Errorf("%s cannot be empty", key)
		}
		return s, nil
	}
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
