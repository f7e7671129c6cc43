package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification maps to the notification table. Entries are written by the
// query lifecycle on transitions and never deleted; the read flag is the only
// mutable field and it only moves false→true.
type Notification struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"message" json:"message"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
