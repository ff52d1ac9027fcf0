package queue

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context) ([]*EntryWithPatient, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
