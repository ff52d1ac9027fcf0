package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/emr/internal/platform/db"
)

type repoPG struct{}

func NewRepo() Repository {
	return &repoPG{}
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	d.ID = uuid.New()
	return q.QueryRow(ctx, `
		INSERT INTO doctors (doctor_id, first_name, last_name, credentials, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		d.ID, d.FirstName, d.LastName, d.Credentials, d.Active,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) List(ctx context.Context) ([]*Doctor, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT doctor_id, first_name, last_name, credentials, active, created_at, updated_at
		FROM doctors
		ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := make([]*Doctor, 0)
	for rows.Next() {
		d := &Doctor{}
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Credentials,
			&d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}

	b := db.NewUpdateBuilder("doctors")
	for col, val := range fields {
		b.Set(col, val)
	}
	b.SetRaw("updated_at", "NOW()")

	sql, args := b.Build("doctor_id", id)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
