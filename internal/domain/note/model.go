package note

import (
	"time"

	"github.com/google/uuid"
)

// Signed-status lifecycle of a clinical note.
const (
	StatusDraft    = "draft"
	StatusSigned   = "signed"
	StatusAddendum = "addendum"
)

var validStatuses = map[string]bool{
	StatusDraft:    true,
	StatusSigned:   true,
	StatusAddendum: true,
}

// Note maps to the notes table in the tenant schema. The four free-text
// sections follow the SOAP structure; diagnosis and billing codes are ordered
// lists stored as jsonb.
type Note struct {
	ID           uuid.UUID              `db:"note_id" json:"note_id"`
	PatientID    uuid.UUID              `db:"patient_id" json:"patient_id"`
	DoctorID     *uuid.UUID             `db:"doctor_id" json:"doctor_id,omitempty"`
	NoteType     *string                `db:"note_type" json:"note_type,omitempty"`
	SignedStatus string                 `db:"signed_status" json:"signed_status"`
	Subjective   *string                `db:"subjective" json:"subjective,omitempty"`
	Objective    *string                `db:"objective" json:"objective,omitempty"`
	Assessment   *string                `db:"assessment" json:"assessment,omitempty"`
	Plan         *string                `db:"plan" json:"plan,omitempty"`
	DxCodes      []string               `db:"dx_codes" json:"dx_codes,omitempty"`
	BillingCodes []string               `db:"billing_codes" json:"billing_codes,omitempty"`
	CustomData   map[string]interface{} `db:"custom_data" json:"custom_data,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time              `db:"updated_at" json:"updated_at"`
}
