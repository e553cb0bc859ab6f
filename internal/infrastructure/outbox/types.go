package outbox

import (
	"time"

	"github.com/google/uuid"

	"github.com/focusflow/backend/domain"
)

// Entry wraps a queued mail message with delivery bookkeeping.
type Entry struct {
	ID        string      `json:"id"`
	Mail      domain.Mail `json:"mail"`
	Priority  int         `json:"priority"`
	Retries   int         `json:"retries"`
	Timestamp time.Time   `json:"timestamp"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Priority <= 0 || e.Priority > 5 {
		e.Priority = 3
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
