package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	created      *Doctor
	updateFields map[string]interface{}
	updateRows   int64
}

func (f *fakeRepo) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	f.created = d
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*Doctor, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	f.updateFields = fields
	return f.updateRows, nil
}

func TestCreate_RequiresNames(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{LastName: "Blackwell"}); err == nil {
		t.Error("expected error without first_name")
	}
	if _, err := svc.Create(ctx, CreateInput{FirstName: "Elizabeth"}); err == nil {
		t.Error("expected error without last_name")
	}
}

func TestCreate_DefaultsActive(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	d, err := svc.Create(context.Background(), CreateInput{FirstName: "Elizabeth", LastName: "Blackwell"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Active {
		t.Error("new doctors must start active")
	}
}

func TestUpdate_FieldRules(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 1})
	ctx := context.Background()
	id := uuid.New()

	bad := []map[string]interface{}{
		{},
		{"specialty": "cardiology"},
		{"active": "yes"},
		{"first_name": ""},
		{"last_name": 7},
	}
	for i, payload := range bad {
		if err := svc.Update(ctx, id, payload); err == nil {
			t.Errorf("case %d: expected %v to be rejected", i, payload)
		}
	}
}

func TestUpdate_NullCredentials(t *testing.T) {
	repo := &fakeRepo{updateRows: 1}
	svc := NewService(repo)

	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{"credentials": nil})
	if err != nil {
		t.Fatalf("credentials should be nullable: %v", err)
	}
	if v, ok := repo.updateFields["credentials"]; !ok || v != nil {
		t.Errorf("expected nil credentials in repo fields, got %v", repo.updateFields)
	}
}

func TestUpdate_UnknownDoctor(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 0})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{"active": false})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
