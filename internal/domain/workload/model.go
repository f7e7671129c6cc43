package workload

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxQueries applies to specialists who never configured a limit.
	DefaultMaxQueries = 5
	MinMaxQueries     = 1
	MaxMaxQueries     = 20
)

// Setting maps to the workload_setting table: a specialist's self-configured
// cap on concurrently handled queries. Advisory only; assignment never blocks
// on it.
type Setting struct {
	SpecialistID uuid.UUID `db:"specialist_id" json:"specialist_id"`
	MaxQueries   int       `db:"max_queries" json:"max_queries"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
