package patient

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date is a calendar date without a time component, rendered as YYYY-MM-DD.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so pgx can read DATE columns.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer for DATE parameters.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Patient maps to the patients table in the tenant schema.
type Patient struct {
	ID                 uuid.UUID              `db:"patient_id" json:"patient_id"`
	FirstName          string                 `db:"first_name" json:"first_name"`
	LastName           string                 `db:"last_name" json:"last_name"`
	MiddleInitial      *string                `db:"middle_initial" json:"middle_initial,omitempty"`
	PreferredName      *string                `db:"preferred_name" json:"preferred_name,omitempty"`
	DateOfBirth        Date                   `db:"date_of_birth" json:"date_of_birth"`
	Gender             *string                `db:"gender" json:"gender,omitempty"`
	PhoneNumber        *string                `db:"phone_number" json:"phone_number,omitempty"`
	Email              *string                `db:"email" json:"email,omitempty"`
	AddressLine1       *string                `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2       *string                `db:"address_line2" json:"address_line2,omitempty"`
	City               *string                `db:"city" json:"city,omitempty"`
	State              *string                `db:"state" json:"state,omitempty"`
	PostalCode         *string                `db:"postal_code" json:"postal_code,omitempty"`
	IsMedicareEligible bool                   `db:"is_medicare_eligible" json:"is_medicare_eligible"`
	CustomData         map[string]interface{} `db:"custom_data" json:"custom_data,omitempty"`
	CreatedAt          time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time              `db:"updated_at" json:"updated_at"`
}

// Summary is the listing row: identity and demographics only.
type Summary struct {
	ID          uuid.UUID `json:"patient_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth Date      `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
