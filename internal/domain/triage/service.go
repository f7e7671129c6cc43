package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
	"github.com/caretriage/caretriage/internal/platform/drafting"
)

// specialistDirectory resolves reassignment targets. Satisfied by
// identity.Service.
type specialistDirectory interface {
	GetSpecialist(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// notifier delivers feed messages. Satisfied by notification.Service.
// Delivery is best-effort; a failed append never fails the transition.
type notifier interface {
	Append(ctx context.Context, recipientID uuid.UUID, message string) error
}

type Service struct {
	repo        QueryRepository
	drafter     drafting.Drafter
	specialists specialistDirectory
	notifs      notifier
	log         zerolog.Logger

	draftTimeout time.Duration
}

func NewService(repo QueryRepository, drafter drafting.Drafter, specialists specialistDirectory, notifs notifier, draftTimeout time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		drafter:      drafter,
		specialists:  specialists,
		notifs:       notifs,
		log:          log,
		draftTimeout: draftTimeout,
	}
}

// Submit records a new query and kicks off drafting in the background. The
// caller gets the waiting query back immediately; the draft (or failure)
// lands via a later status transition.
func (s *Service) Submit(ctx context.Context, caller *identity.User, content string) (*Query, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.Validation("query content must not be empty")
	}

	q := &Query{PatientID: caller.ID, Content: content}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create query: %w", err)
	}

	go s.draft(q.ID, q.PatientID, content)

	return s.repo.GetByID(ctx, q.ID)
}

// draft runs detached from the submitting request. The gateway call is bounded
// by the configured timeout; the follow-up store writes use a fresh context so
// a gateway timeout cannot also starve the failure record.
func (s *Service) draft(queryID, patientID uuid.UUID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.draftTimeout)
	d, specialty, err := s.drafter.Draft(ctx, content)
	cancel()

	storeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err != nil {
		s.log.Warn().Err(err).Stringer("query_id", queryID).Msg("drafting failed")
		if err := s.repo.MarkFailed(storeCtx, queryID, err.Error()); err != nil {
			s.log.Error().Err(err).Stringer("query_id", queryID).Msg("record drafting failure")
			return
		}
		s.notify(storeCtx, patientID, "We could not prepare a draft for your query. Please try again later.")
		return
	}

	if err := s.repo.AttachDraft(storeCtx, queryID, d, specialty); err != nil {
		s.log.Error().Err(err).Stringer("query_id", queryID).Msg("attach draft")
		return
	}
	s.notify(storeCtx, patientID, "New AI response available for your query")
}

func (s *Service) notify(ctx context.Context, recipientID uuid.UUID, message string) {
	if err := s.notifs.Append(ctx, recipientID, message); err != nil {
		s.log.Warn().Err(err).Stringer("recipient_id", recipientID).Msg("notification append failed")
	}
}

// List returns the queries visible to the caller, newest first. Patients see
// their own; specialists see queries assigned to them plus unassigned ready
// queries routed to their specialty; admins see everything.
func (s *Service) List(ctx context.Context, caller *identity.User, limit, offset int) ([]*Query, int, error) {
	switch {
	case caller.IsAdmin():
		return s.repo.ListAll(ctx, limit, offset)
	case caller.IsSpecialist():
		return s.repo.ListForSpecialist(ctx, caller.ID, caller.SpecialtyTag(), limit, offset)
	default:
		return s.repo.ListByPatient(ctx, caller.ID, limit, offset)
	}
}

// Get fetches a single query, applying the same visibility rule as List.
func (s *Service) Get(ctx context.Context, caller *identity.User, id uuid.UUID) (*Query, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(caller, q) {
		return nil, apperror.Authorization("query is not visible to you")
	}
	return q, nil
}

func (s *Service) canView(caller *identity.User, q *Query) bool {
	switch {
	case caller.IsAdmin():
		return true
	case q.PatientID == caller.ID:
		return true
	case caller.IsSpecialist():
		return q.IsAssignedTo(caller.ID) || q.MatchesSpecialty(caller.SpecialtyTag())
	default:
		return false
	}
}

// VerifyRequest is a reviewer's decision on a ready query. Exactly one of the
// three outcomes happens: reassignment when ReassignTo is set, approval when
// Approve is true, otherwise the query returns to the pool.
type VerifyRequest struct {
	Approve          bool
	ModifiedResponse *string
	ReassignTo       *uuid.UUID
}

// Verify applies a reviewer decision. Only specialists and admins may review.
// The underlying transitions are guarded on the ready status, so of two
// concurrent reviewers exactly one succeeds and the other gets a Conflict.
func (s *Service) Verify(ctx context.Context, caller *identity.User, id uuid.UUID, req VerifyRequest) (*Query, error) {
	if !caller.IsSpecialist() && !caller.IsAdmin() {
		return nil, apperror.Authorization("only specialists may review queries")
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case req.ReassignTo != nil:
		err = s.reassign(ctx, q, *req.ReassignTo)
	case req.Approve:
		err = s.approve(ctx, q, caller, req.ModifiedResponse)
	default:
		err = s.repo.ReturnToPool(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) approve(ctx context.Context, q *Query, caller *identity.User, modified *string) error {
	final := ""
	if modified != nil && strings.TrimSpace(*modified) != "" {
		final = *modified
	} else if q.Draft != nil {
		final = q.Draft.RenderText()
	}
	if final == "" {
		return apperror.Validation("no response text to approve")
	}

	if err := s.repo.Approve(ctx, q.ID, caller.ID, final); err != nil {
		return err
	}
	s.notify(ctx, q.PatientID, fmt.Sprintf("Your query has been reviewed by %s", caller.Name))
	return nil
}

func (s *Service) reassign(ctx context.Context, q *Query, targetID uuid.UUID) error {
	target, err := s.specialists.GetSpecialist(ctx, targetID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return apperror.Validation("reassignment target %s is not a known specialist", targetID)
		}
		return err
	}

	if err := s.repo.Reassign(ctx, q.ID, target.ID); err != nil {
		return err
	}
	s.notify(ctx, target.ID, "A patient query has been reassigned to you")
	return nil
}
