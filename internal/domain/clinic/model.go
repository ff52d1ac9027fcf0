package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the per-tenant singleton (exactly one row, enforced by a CHECK
// constraint on id). Fee schedule is keyed by billing code.
type Settings struct {
	ID              int                `db:"id" json:"-"`
	ClinicName      string             `db:"clinic_name" json:"clinic_name"`
	CustomTerms     *string            `db:"custom_terms" json:"custom_terms,omitempty"`
	LLMInstructions *string            `db:"llm_instructions" json:"llm_instructions,omitempty"`
	FeeSchedule     map[string]float64 `db:"fee_schedule" json:"fee_schedule,omitempty"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// FormField is a tenant-defined intake or note field descriptor. Values
// captured through these fields land in the custom_data maps on patients and
// notes.
type FormField struct {
	Area         string    `db:"area" json:"area"`
	ID           uuid.UUID `db:"field_id" json:"field_id"`
	Label        string    `db:"label" json:"label"`
	FieldType    string    `db:"field_type" json:"field_type"`
	Options      []string  `db:"options" json:"options,omitempty"`
	Required     bool      `db:"required" json:"required"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var validFieldTypes = map[string]bool{
	"text":     true,
	"textarea": true,
	"number":   true,
	"date":     true,
	"select":   true,
	"checkbox": true,
}
