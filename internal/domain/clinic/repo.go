package clinic

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetSettings(ctx context.Context) (*Settings, error)
	UpsertSettings(ctx context.Context, s *Settings) error
	ListFormFields(ctx context.Context) ([]*FormField, error)
	CreateFormField(ctx context.Context, f *FormField) error
	DeleteFormField(ctx context.Context, id uuid.UUID) (int64, error)
}
