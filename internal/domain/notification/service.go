package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
)

type Service struct {
	repo NotificationRepository
}

func NewService(repo NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Append records a message for the recipient. Callers treat failures as
// best-effort; a lost notification never rolls back the transition that
// produced it.
func (s *Service) Append(ctx context.Context, recipientID uuid.UUID, message string) error {
	n := &Notification{RecipientID: recipientID, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

// MarkRead flips the read flag. Only the recipient may do so; repeating the
// call is a no-op.
func (s *Service) MarkRead(ctx context.Context, caller *identity.User, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != caller.ID {
		return apperror.Authorization("notification belongs to another user")
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}
