package queue

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

// Enqueue checks a patient in. The foreign key on patient_id rejects
// check-ins for unknown patients at the data layer.
func (s *Service) Enqueue(ctx context.Context, patientID uuid.UUID, note *string) (*Entry, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patientId is required")
	}
	e := &Entry{
		PatientID: patientID,
		Status:    StatusWaiting,
		Note:      note,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*EntryWithPatient, error) {
	return s.repo.List(ctx)
}

// Transition moves an entry forward in its lifecycle. Backwards moves and
// unknown statuses are rejected before any write.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, status string) error {
	if _, known := allowedTransitions[status]; !known {
		return fmt.Errorf("invalid status: %s", status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !allowedTransitions[current.Status][status] {
		return fmt.Errorf("cannot transition from %s to %s", current.Status, status)
	}

	rows, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Remove deletes an entry: the encounter finished or the check-in was revoked.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
