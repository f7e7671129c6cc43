package triage

import (
	"context"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/drafting"
)

// QueryRepository persists queries. Every transition method is a conditional
// update on the current status; when the precondition no longer holds (another
// writer won the race, or the drafting result arrived after a failure was
// recorded) the method returns a Conflict error and changes nothing.
type QueryRepository interface {
	Create(ctx context.Context, q *Query) error
	GetByID(ctx context.Context, id uuid.UUID) (*Query, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Query, int, error)
	ListForSpecialist(ctx context.Context, specialistID uuid.UUID, specialty identity.Specialty, limit, offset int) ([]*Query, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Query, int, error)

	// AttachDraft moves waiting → ready.
	AttachDraft(ctx context.Context, id uuid.UUID, draft *drafting.Draft, specialty identity.Specialty) error
	// MarkFailed moves waiting → error.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	// Approve moves ready → approved, recording the reviewer and final text.
	Approve(ctx context.Context, id, specialistID uuid.UUID, finalResponse string) error
	// ReturnToPool clears the assignee of a ready query.
	ReturnToPool(ctx context.Context, id uuid.UUID) error
	// Reassign hands a ready query to another specialist.
	Reassign(ctx context.Context, id, specialistID uuid.UUID) error
}
