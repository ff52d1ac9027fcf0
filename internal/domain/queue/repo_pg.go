package queue

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/emr/internal/platform/db"
)

type repoPG struct{}

func NewRepo() Repository {
	return &repoPG{}
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	e.ID = uuid.New()
	return q.QueryRow(ctx, `
		INSERT INTO waiting_queue (queue_entry_id, patient_id, status, note)
		VALUES ($1, $2, $3, $4)
		RETURNING enqueued_at`,
		e.ID, e.PatientID, e.Status, e.Note,
	).Scan(&e.EnqueuedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e := &Entry{}
	err = q.QueryRow(ctx, `
		SELECT queue_entry_id, patient_id, status, note, enqueued_at
		FROM waiting_queue WHERE queue_entry_id = $1`, id).
		Scan(&e.ID, &e.PatientID, &e.Status, &e.Note, &e.EnqueuedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the queue in strict check-in order.
func (r *repoPG) List(ctx context.Context) ([]*EntryWithPatient, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT w.queue_entry_id, w.patient_id, w.status, w.note, w.enqueued_at,
		       p.first_name, p.last_name
		FROM waiting_queue w
		JOIN patients p ON p.patient_id = w.patient_id
		ORDER BY w.enqueued_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*EntryWithPatient, 0)
	for rows.Next() {
		e := &EntryWithPatient{}
		if err := rows.Scan(&e.ID, &e.PatientID, &e.Status, &e.Note, &e.EnqueuedAt,
			&e.FirstName, &e.LastName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx,
		`UPDATE waiting_queue SET status = $1 WHERE queue_entry_id = $2`, status, id)
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
	tag, err := q.Exec(ctx, `DELETE FROM waiting_queue WHERE queue_entry_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
