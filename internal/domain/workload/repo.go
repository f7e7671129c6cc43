package workload

import (
	"context"

	"github.com/google/uuid"
)

type SettingRepository interface {
	Get(ctx context.Context, specialistID uuid.UUID) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
}
