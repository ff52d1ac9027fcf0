package db

import "testing"

func TestUpdateBuilder_Build(t *testing.T) {
	b := NewUpdateBuilder("patients")
	b.Set("first_name", "Ada")
	b.Set("city", "Portland")
	b.SetRaw("updated_at", "NOW()")

	sql, args := b.Build("patient_id", "abc-123")

	want := "UPDATE patients SET first_name = $1, city = $2, updated_at = NOW() WHERE patient_id = $3"
	if sql != want {
		t.Errorf("expected %q, got %q", want, sql)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[0] != "Ada" || args[1] != "Portland" || args[2] != "abc-123" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestUpdateBuilder_Empty(t *testing.T) {
	b := NewUpdateBuilder("notes")
	if !b.Empty() {
		t.Error("new builder should be empty")
	}
	b.Set("plan", "rest")
	if b.Empty() {
		t.Error("builder with a set should not be empty")
	}
}

func TestUpdateBuilder_NullValue(t *testing.T) {
	b := NewUpdateBuilder("patients")
	b.Set("middle_initial", nil)

	sql, args := b.Build("patient_id", "id-1")
	want := "UPDATE patients SET middle_initial = $1 WHERE patient_id = $2"
	if sql != want {
		t.Errorf("expected %q, got %q", want, sql)
	}
	if args[0] != nil {
		t.Errorf("expected nil arg, got %v", args[0])
	}
}
