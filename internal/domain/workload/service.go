package workload

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
)

type Service struct {
	repo SettingRepository
}

func NewService(repo SettingRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the specialist's configured limit, or the default when no
// setting is stored. Absence is not an error.
func (s *Service) Get(ctx context.Context, specialistID uuid.UUID) (int, error) {
	setting, err := s.repo.Get(ctx, specialistID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return DefaultMaxQueries, nil
		}
		return 0, fmt.Errorf("get workload setting: %w", err)
	}
	return setting.MaxQueries, nil
}

// Set updates a specialist's limit. Self-service only: a specialist may only
// edit their own setting; admins may edit anyone's. Idempotent for the same
// value.
func (s *Service) Set(ctx context.Context, caller *identity.User, specialistID uuid.UUID, maxQueries int) error {
	if maxQueries < MinMaxQueries || maxQueries > MaxMaxQueries {
		return apperror.Validation("max_queries must be between %d and %d, got %d",
			MinMaxQueries, MaxMaxQueries, maxQueries)
	}
	if caller.ID != specialistID && !caller.IsAdmin() {
		return apperror.Authorization("cannot change another specialist's workload")
	}
	if err := s.repo.Upsert(ctx, &Setting{SpecialistID: specialistID, MaxQueries: maxQueries}); err != nil {
		return fmt.Errorf("upsert workload setting: %w", err)
	}
	return nil
}
