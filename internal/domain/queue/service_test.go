package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	created    *Entry
	entry      *Entry
	getErr     error
	updateRows int64
	deleteRows int64
}

func (f *fakeRepo) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	f.created = e
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entry, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*EntryWithPatient, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	return f.updateRows, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.deleteRows, nil
}

func TestEnqueue(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	e, err := svc.Enqueue(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != StatusWaiting {
		t.Errorf("new entries must start waiting, got %s", e.Status)
	}
	if e.ID == uuid.Nil {
		t.Error("expected an assigned entry id")
	}
}

func TestEnqueue_NilPatient(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Enqueue(context.Background(), uuid.Nil, nil); err == nil {
		t.Fatal("expected error for nil patient id")
	}
}

func TestTransition_Matrix(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusWaiting, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusWaiting, StatusCompleted, false},
		{StatusInProgress, StatusWaiting, false},
		{StatusCompleted, StatusWaiting, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusWaiting, StatusWaiting, false},
	}
	for _, tc := range cases {
		repo := &fakeRepo{entry: &Entry{Status: tc.from}, updateRows: 1}
		svc := NewService(repo)
		err := svc.Transition(context.Background(), uuid.New(), tc.to)
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	svc := NewService(&fakeRepo{entry: &Entry{Status: StatusWaiting}, updateRows: 1})
	if err := svc.Transition(context.Background(), uuid.New(), "cancelled"); err == nil {
		t.Fatal("expected error for unknown target status")
	}
}

func TestTransition_UnknownEntry(t *testing.T) {
	svc := NewService(&fakeRepo{getErr: pgx.ErrNoRows})
	err := svc.Transition(context.Background(), uuid.New(), StatusInProgress)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestRemove_UnknownEntry(t *testing.T) {
	svc := NewService(&fakeRepo{deleteRows: 0})
	err := svc.Remove(context.Background(), uuid.New())
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
