package doctor

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

type CreateInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Credentials *string `json:"credentials"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("first_name and last_name are required")
	}
	d := &Doctor{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Credentials: in.Credentials,
		Active:      true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*Doctor, error) {
	return s.repo.List(ctx)
}

var updatableColumns = map[string]bool{
	"first_name":  true,
	"last_name":   true,
	"credentials": true,
	"active":      true,
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("update payload must not be empty")
	}

	fields := make(map[string]interface{}, len(payload))
	for key, val := range payload {
		if !updatableColumns[key] {
			return fmt.Errorf("unrecognized field: %s", key)
		}
		switch key {
		case "active":
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("active must be a boolean")
			}
			fields[key] = b
		case "credentials":
			if val == nil {
				fields[key] = nil
				continue
			}
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("credentials must be a string")
			}
			fields[key] = s
		default:
			s, ok := val.(string)
			if !ok || s == "" {
				return fmt.Errorf("%s must be a non-empty string", key)
			}
			fields[key] = s
		}
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
