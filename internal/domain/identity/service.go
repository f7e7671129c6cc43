package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/platform/apperror"
	"github.com/caretriage/caretriage/internal/platform/auth"
)

type Service struct {
	repo     UserRepository
	resolver *Resolver
}

func NewService(repo UserRepository, resolver *Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// EnsureUser returns the stored user for the principal, creating the record
// on first sight. The role is resolved from the directory only at creation;
// an existing user keeps their stored role even if the directory has changed
// since.
func (s *Service) EnsureUser(ctx context.Context, p auth.Principal) (*User, error) {
	u, err := s.repo.GetByExternalID(ctx, p.ExternalID)
	if err == nil {
		return u, nil
	}
	if !apperror.IsKind(err, apperror.KindNotFound) {
		return nil, fmt.Errorf("look up user %s: %w", p.ExternalID, err)
	}

	role, specialty := s.resolver.Resolve(p.Email)
	u = &User{
		ExternalID: p.ExternalID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       role,
		Specialty:  specialty,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Two first-sign-in requests can race; the loser re-reads the
		// record the winner created.
		if apperror.IsKind(err, apperror.KindConflict) {
			return s.repo.GetByExternalID(ctx, p.ExternalID)
		}
		return nil, fmt.Errorf("create user %s: %w", p.ExternalID, err)
	}
	return u, nil
}

// GetUser fetches a user by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetSpecialist fetches a user by id and verifies they hold the specialist
// role. Used to validate reassignment targets.
func (s *Service) GetSpecialist(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("specialist %s not found", id)
		}
		return nil, err
	}
	if !u.IsSpecialist() {
		return nil, apperror.Validation("user %s is not a specialist", id)
	}
	return u, nil
}

// ListSpecialists returns the specialist directory page.
func (s *Service) ListSpecialists(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.ListSpecialists(ctx, limit, offset)
}
