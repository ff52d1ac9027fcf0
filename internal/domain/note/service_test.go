package note

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	created      *Note
	getResult    *Note
	getErr       error
	updateFields map[string]interface{}
	updateRows   int64
	updateErr    error
}

func (f *fakeRepo) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	f.created = n
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	return f.getResult, f.getErr
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]*Note, error) {
	return nil, nil
}

func (f *fakeRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	f.updateFields = fields
	return f.updateRows, f.updateErr
}

func TestCreate_RequiresPatient(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Create(context.Background(), CreateInput{}); err == nil {
		t.Fatal("expected error without patient_id")
	}
	if _, err := svc.Create(context.Background(), CreateInput{PatientID: "not-a-uuid"}); err == nil {
		t.Fatal("expected error for malformed patient_id")
	}
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	n, err := svc.Create(context.Background(), CreateInput{PatientID: uuid.NewString()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.SignedStatus != StatusDraft {
		t.Errorf("expected draft status, got %s", n.SignedStatus)
	}
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(&fakeRepo{})
	_, err := svc.Create(context.Background(), CreateInput{
		PatientID:    uuid.NewString(),
		SignedStatus: "finalized",
	})
	if err == nil {
		t.Fatal("expected error for unknown signed_status")
	}
}

func TestCreate_RejectsMalformedDoctorID(t *testing.T) {
	svc := NewService(&fakeRepo{})
	bad := "dr-jones"
	_, err := svc.Create(context.Background(), CreateInput{
		PatientID: uuid.NewString(),
		DoctorID:  &bad,
	})
	if err == nil {
		t.Fatal("expected error for malformed doctor_id")
	}
}

func TestUpdate_RequiresSection(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 1})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"signed_status": StatusSigned,
	})
	if err == nil {
		t.Fatal("an update without any SOAP section must be rejected")
	}
}

func TestUpdate_UnrecognizedField(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 1})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"plan":   "rest",
		"author": "someone",
	})
	if err == nil {
		t.Fatal("expected unrecognized field to be rejected")
	}
}

func TestUpdate_PreservesCodeOrder(t *testing.T) {
	repo := &fakeRepo{updateRows: 1}
	svc := NewService(repo)

	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"plan":     "rest",
		"dx_codes": []interface{}{"J06.9", "R05", "A00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	codes, ok := repo.updateFields["dx_codes"].([]string)
	if !ok {
		t.Fatalf("expected []string, got %T", repo.updateFields["dx_codes"])
	}
	want := []string{"J06.9", "R05", "A00"}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("code order not preserved: got %v", codes)
		}
	}
}

func TestUpdate_RejectsNonStringCodes(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 1})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"plan":          "rest",
		"billing_codes": []interface{}{"99213", 99214},
	})
	if err == nil {
		t.Fatal("expected error for non-string billing code")
	}
}

func TestUpdate_NullSignedStatus(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 1})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"plan":          "rest",
		"signed_status": nil,
	})
	if err == nil {
		t.Fatal("signed_status must not be nullable")
	}
}

func TestUpdate_UnknownNote(t *testing.T) {
	svc := NewService(&fakeRepo{updateRows: 0})
	err := svc.Update(context.Background(), uuid.New(), map[string]interface{}{
		"subjective": "patient reports improvement",
	})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
