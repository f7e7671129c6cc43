package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/drafting"
)

// Status is the query lifecycle state.
//
//	waiting → ready → approved
//	waiting → error
//
// A ready query may change assignee any number of times; approved and error
// are terminal.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusReady    Status = "ready"
	StatusApproved Status = "approved"
	StatusError    Status = "error"
)

// Query maps to the patient_query table.
type Query struct {
	ID                   uuid.UUID           `db:"id" json:"id"`
	PatientID            uuid.UUID           `db:"patient_id" json:"patient_id"`
	AssignedSpecialistID *uuid.UUID          `db:"assigned_specialist_id" json:"assigned_specialist_id,omitempty"`
	Content              string              `db:"content" json:"content"`
	Status               Status              `db:"status" json:"status"`
	Draft                *drafting.Draft     `db:"draft" json:"draft,omitempty"`
	RequiredSpecialty    *identity.Specialty `db:"required_specialty" json:"required_specialty,omitempty"`
	FinalResponse        *string             `db:"final_response" json:"final_response,omitempty"`
	FailureReason        *string             `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}

// IsAssignedTo reports whether the query is currently held by the specialist.
func (q *Query) IsAssignedTo(id uuid.UUID) bool {
	return q.AssignedSpecialistID != nil && *q.AssignedSpecialistID == id
}

// MatchesSpecialty reports whether an unassigned ready query is routed to the
// given specialty.
func (q *Query) MatchesSpecialty(sp identity.Specialty) bool {
	return q.AssignedSpecialistID == nil &&
		q.Status == StatusReady &&
		q.RequiredSpecialty != nil && *q.RequiredSpecialty == sp
}
