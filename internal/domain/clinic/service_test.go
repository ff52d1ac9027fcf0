package clinic

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	settings   *Settings
	upserted   *Settings
	fields     []*FormField
	created    *FormField
	deleteRows int64
}

func (f *fakeRepo) GetSettings(ctx context.Context) (*Settings, error) {
	if f.settings == nil {
		return nil, pgx.ErrNoRows
	}
	return f.settings, nil
}

func (f *fakeRepo) UpsertSettings(ctx context.Context, s *Settings) error {
	f.upserted = s
	return nil
}

func (f *fakeRepo) ListFormFields(ctx context.Context) ([]*FormField, error) {
	return f.fields, nil
}

func (f *fakeRepo) CreateFormField(ctx context.Context, field *FormField) error {
	field.ID = uuid.New()
	f.created = field
	return nil
}

func (f *fakeRepo) DeleteFormField(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.deleteRows, nil
}

func TestUpdateSettings_RequiresName(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.UpdateSettings(context.Background(), SettingsInput{}); err == nil {
		t.Fatal("expected error without clinic_name")
	}
}

func TestUpdateSettings_ValidatesFeeSchedule(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, SettingsInput{
		ClinicName:  "Eastside Family Clinic",
		FeeSchedule: map[string]float64{"99213": -10},
	})
	if err == nil {
		t.Error("negative fees must be rejected")
	}

	_, err = svc.UpdateSettings(ctx, SettingsInput{
		ClinicName:  "Eastside Family Clinic",
		FeeSchedule: map[string]float64{"": 80},
	})
	if err == nil {
		t.Error("empty billing codes must be rejected")
	}
}

func TestUpdateSettings_OK(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	s, err := svc.UpdateSettings(context.Background(), SettingsInput{
		ClinicName:  "Eastside Family Clinic",
		FeeSchedule: map[string]float64{"99213": 80, "99214": 120},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != 1 {
		t.Errorf("settings must always target the singleton row, got id %d", s.ID)
	}
	if repo.upserted == nil {
		t.Fatal("expected the settings to reach the repository")
	}
}

func TestCreateFormField_Validation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	bad := []FormFieldInput{
		{Label: "Allergies", FieldType: "text"},
		{Area: "intake", FieldType: "text"},
		{Area: "intake", Label: "Allergies", FieldType: "dropdown"},
		{Area: "intake", Label: "Blood Type", FieldType: "select"},
	}
	for i, in := range bad {
		if _, err := svc.CreateFormField(ctx, in); err == nil {
			t.Errorf("case %d: expected %+v to be rejected", i, in)
		}
	}
}

func TestCreateFormField_OK(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	f, err := svc.CreateFormField(context.Background(), FormFieldInput{
		Area:      "intake",
		Label:     "Blood Type",
		FieldType: "select",
		Options:   []string{"A", "B", "AB", "O"},
		Required:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID == uuid.Nil {
		t.Error("expected an assigned field id")
	}
}

func TestDeleteFormField_Unknown(t *testing.T) {
	svc := NewService(&fakeRepo{deleteRows: 0})
	err := svc.DeleteFormField(context.Background(), uuid.New())
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
