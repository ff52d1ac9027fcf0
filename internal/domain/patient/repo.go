package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Summary, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
