package workload

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretriage/caretriage/internal/platform/apperror"
)

type settingRepoPG struct{ pool *pgxpool.Pool }

func NewSettingRepoPG(pool *pgxpool.Pool) SettingRepository {
	return &settingRepoPG{pool: pool}
}

func (r *settingRepoPG) Get(ctx context.Context, specialistID uuid.UUID) (*Setting, error) {
	var s Setting
	err := r.pool.QueryRow(ctx, `
		SELECT specialist_id, max_queries, updated_at
		FROM workload_setting WHERE specialist_id = $1`, specialistID).
		Scan(&s.SpecialistID, &s.MaxQueries, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("workload setting not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepoPG) Upsert(ctx context.Context, s *Setting) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workload_setting (specialist_id, max_queries)
		VALUES ($1, $2)
		ON CONFLICT (specialist_id)
		DO UPDATE SET max_queries = EXCLUDED.max_queries, updated_at = NOW()`,
		s.SpecialistID, s.MaxQueries)
	return err
}
