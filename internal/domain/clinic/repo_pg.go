package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/emr/internal/platform/db"
)

type repoPG struct{}

func NewRepo() Repository {
	return &repoPG{}
}

func (r *repoPG) GetSettings(ctx context.Context) (*Settings, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	err = q.QueryRow(ctx, `
		SELECT id, clinic_name, custom_terms, llm_instructions, fee_schedule, updated_at
		FROM clinic_settings WHERE id = 1`).
		Scan(&s.ID, &s.ClinicName, &s.CustomTerms, &s.LLMInstructions, &s.FeeSchedule, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repoPG) UpsertSettings(ctx context.Context, s *Settings) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	return q.QueryRow(ctx, `
		INSERT INTO clinic_settings (id, clinic_name, custom_terms, llm_instructions, fee_schedule)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			custom_terms = EXCLUDED.custom_terms,
			llm_instructions = EXCLUDED.llm_instructions,
			fee_schedule = EXCLUDED.fee_schedule,
			updated_at = NOW()
		RETURNING updated_at`,
		s.ClinicName, s.CustomTerms, s.LLMInstructions, s.FeeSchedule,
	).Scan(&s.UpdatedAt)
}

func (r *repoPG) ListFormFields(ctx context.Context) ([]*FormField, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT field_id, area, label, field_type, options, required, display_order, created_at
		FROM custom_form_fields
		ORDER BY area, display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]*FormField, 0)
	for rows.Next() {
		f := &FormField{}
		if err := rows.Scan(&f.ID, &f.Area, &f.Label, &f.FieldType, &f.Options,
			&f.Required, &f.DisplayOrder, &f.CreatedAt); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *repoPG) CreateFormField(ctx context.Context, f *FormField) error {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return err
	}
	f.ID = uuid.New()
	return q.QueryRow(ctx, `
		INSERT INTO custom_form_fields (field_id, area, label, field_type, options, required, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		f.ID, f.Area, f.Label, f.FieldType, f.Options, f.Required, f.DisplayOrder,
	).Scan(&f.CreatedAt)
}

func (r *repoPG) DeleteFormField(ctx context.Context, id uuid.UUID) (int64, error) {
	q, err := db.QuerierFromContext(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, `DELETE FROM custom_form_fields WHERE field_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
