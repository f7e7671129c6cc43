package triage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
	"github.com/caretriage/caretriage/internal/platform/drafting"
)

type queryRepoPG struct{ pool *pgxpool.Pool }

func NewQueryRepoPG(pool *pgxpool.Pool) QueryRepository {
	return &queryRepoPG{pool: pool}
}

const queryCols = `id, patient_id, assigned_specialist_id, content, status,
	draft, required_specialty, final_response, failure_reason,
	created_at, updated_at`

func scanQuery(row pgx.Row) (*Query, error) {
	var q Query
	err := row.Scan(
		&q.ID, &q.PatientID, &q.AssignedSpecialistID, &q.Content, &q.Status,
		&q.Draft, &q.RequiredSpecialty, &q.FinalResponse, &q.FailureReason,
		&q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("query not found")
	}
	return &q, err
}

func (r *queryRepoPG) Create(ctx context.Context, q *Query) error {
	q.ID = uuid.New()
	q.Status = StatusWaiting
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_query (id, patient_id, content, status)
		VALUES ($1, $2, $3, $4)`,
		q.ID, q.PatientID, q.Content, q.Status)
	return err
}

func (r *queryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Query, error) {
	return scanQuery(r.pool.QueryRow(ctx,
		`SELECT `+queryCols+` FROM patient_query WHERE id = $1`, id))
}

func (r *queryRepoPG) list(ctx context.Context, where string, args []any, limit, offset int) ([]*Query, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_query `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM patient_query %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, queryCols, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, q)
	}
	return items, total, rows.Err()
}

func (r *queryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Query, int, error) {
	return r.list(ctx, `WHERE patient_id = $1`, []any{patientID}, limit, offset)
}

func (r *queryRepoPG) ListForSpecialist(ctx context.Context, specialistID uuid.UUID, specialty identity.Specialty, limit, offset int) ([]*Query, int, error) {
	where := `WHERE assigned_specialist_id = $1
		OR (assigned_specialist_id IS NULL AND status = 'ready' AND required_specialty = $2)`
	return r.list(ctx, where, []any{specialistID, specialty}, limit, offset)
}

func (r *queryRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Query, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

// transition runs a conditional update and maps zero affected rows to a
// Conflict error. Callers resolve existence before transitioning.
func (r *queryRepoPG) transition(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	return conflictOnZero(tag)
}

func conflictOnZero(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("query is no longer in the expected state")
	}
	return nil
}

func (r *queryRepoPG) AttachDraft(ctx context.Context, id uuid.UUID, draft *drafting.Draft, specialty identity.Specialty) error {
	return r.transition(ctx, `
		UPDATE patient_query
		SET status = 'ready', draft = $2, required_specialty = $3, updated_at = now()
		WHERE id = $1 AND status = 'waiting'`,
		id, draft, specialty)
}

func (r *queryRepoPG) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.transition(ctx, `
		UPDATE patient_query
		SET status = 'error', failure_reason = $2, updated_at = now()
		WHERE id = $1 AND status = 'waiting'`,
		id, reason)
}

func (r *queryRepoPG) Approve(ctx context.Context, id, specialistID uuid.UUID, finalResponse string) error {
	return r.transition(ctx, `
		UPDATE patient_query
		SET status = 'approved', assigned_specialist_id = $2, final_response = $3, updated_at = now()
		WHERE id = $1 AND status = 'ready'`,
		id, specialistID, finalResponse)
}

func (r *queryRepoPG) ReturnToPool(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, `
		UPDATE patient_query
		SET assigned_specialist_id = NULL, updated_at = now()
		WHERE id = $1 AND status = 'ready'`,
		id)
}

func (r *queryRepoPG) Reassign(ctx context.Context, id, specialistID uuid.UUID) error {
	return r.transition(ctx, `
		UPDATE patient_query
		SET assigned_specialist_id = $2, updated_at = now()
		WHERE id = $1 AND status = 'ready'`,
		id, specialistID)
}
