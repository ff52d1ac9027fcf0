package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table in the tenant schema.
type Doctor struct {
	ID          uuid.UUID `db:"doctor_id" json:"doctor_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Credentials *string   `db:"credentials" json:"credentials,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
