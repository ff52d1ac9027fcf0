package queue

import (
	"time"

	"github.com/google/uuid"
)

// Waiting-queue entry lifecycle. Entries move strictly forward; removal is a
// delete, not a transition.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// allowedTransitions maps a current status to the statuses it may move to.
var allowedTransitions = map[string]map[string]bool{
	StatusWaiting:    {StatusInProgress: true},
	StatusInProgress: {StatusCompleted: true},
	StatusCompleted:  {},
}

// Entry maps to the waiting_queue table in the tenant schema.
type Entry struct {
	ID         uuid.UUID `db:"queue_entry_id" json:"queue_entry_id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Status     string    `db:"status" json:"status"`
	Note       *string   `db:"note" json:"note,omitempty"`
	EnqueuedAt time.Time `db:"enqueued_at" json:"enqueued_at"`
}

// EntryWithPatient is the listing row: queue metadata joined with the
// patient's name so the front desk never has to resolve identifiers.
type EntryWithPatient struct {
	Entry
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
