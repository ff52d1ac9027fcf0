package note

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/clinicore/emr/internal/platform/db"
)

type repoPG struct{}

func NewRepo() Repository {
	return &repoPG{}
}

const noteCols = `note_id, patient_id, doctor_id, note_type, signed_status,
	subjective, objective, assessment, plan,
	dx_codes, billing_codes, custom_data, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	n.ID = uuid.New()
	return q.QueryRow(ctx, `
		INSERT INTO notes (
			note_id, patient_id, doctor_id, note_type, signed_status,
			subjective, objective, assessment, plan,
			dx_codes, billing_codes, custom_data
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
		) RETURNING created_at, updated_at`,
		n.ID, n.PatientID, n.DoctorID, n.NoteType, n.SignedStatus,
		n.Subjective, n.Objective, n.Assessment, n.Plan,
		n.DxCodes, n.BillingCodes, n.CustomData,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanNote(q.QueryRow(ctx, `SELECT `+noteCols+` FROM notes WHERE note_id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Note, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx,
		`SELECT `+noteCols+` FROM notes ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx,
		`SELECT `+noteCols+` FROM notes WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}

	b := db.NewUpdateBuilder("notes")
	for col, val := range fields {
		b.Set(col, val)
	}
	b.SetRaw("updated_at", "NOW()")

	sql, args := b.Build("note_id", id)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNote(row pgx.Row) (*Note, error) {
	n := &Note{}
	err := row.Scan(
		&n.ID, &n.PatientID, &n.DoctorID, &n.NoteType, &n.SignedStatus,
		&n.Subjective, &n.Objective, &n.Assessment, &n.Plan,
		&n.DxCodes, &n.BillingCodes, &n.CustomData, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func collectNotes(rows pgx.Rows) ([]*Note, error) {
	notes := make([]*Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
