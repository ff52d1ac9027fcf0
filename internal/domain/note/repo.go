package note

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	List(ctx context.Context, limit, offset int) ([]*Note, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
}
