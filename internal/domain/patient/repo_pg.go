package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/emr/internal/platform/db"
)

type repoPG struct{}

func NewRepo() Repository {
	return &repoPG{}
}

const patientCols = `patient_id, first_name, last_name, middle_initial, preferred_name,
	date_of_birth, gender, phone_number, email,
	address_line1, address_line2, city, state, postal_code,
	is_medicare_eligible, custom_data, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	p.ID = uuid.New()
	return q.QueryRow(ctx, `
		INSERT INTO patients (
			patient_id, first_name, last_name, middle_initial, preferred_name,
			date_of_birth, gender, phone_number, email,
			address_line1, address_line2, city, state, postal_code,
			is_medicare_eligible, custom_data
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
		) RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.MiddleInitial, p.PreferredName,
		p.DateOfBirth, p.Gender, p.PhoneNumber, p.Email,
		p.AddressLine1, p.AddressLine2, p.City, p.State, p.PostalCode,
		p.IsMedicareEligible, p.CustomData,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p := &Patient{}
	err = q.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE patient_id = $1`, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.MiddleInitial, &p.PreferredName,
		&p.DateOfBirth, &p.Gender, &p.PhoneNumber, &p.Email,
		&p.AddressLine1, &p.AddressLine2, &p.City, &p.State, &p.PostalCode,
		&p.IsMedicareEligible, &p.CustomData, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Summary, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT patient_id, first_name, last_name, date_of_birth, created_at, updated_at
		FROM patients
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*Summary, 0)
	for rows.Next() {
		s := &Summary{}
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}

	b := db.NewUpdateBuilder("patients")
	for col, val := range fields {
		b.Set(col, val)
	}
	b.SetRaw("updated_at", "NOW()")

	sql, args := b.Build("patient_id", id)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}
	// Notes and queue entries cascade with the patient (ON DELETE CASCADE).
	tag, err := q.Exec(ctx, `DELETE FROM patients WHERE patient_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
