package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	List(ctx context.Context) ([]*Doctor, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
}
