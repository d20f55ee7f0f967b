package entry

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"journowlAPI/internal/metric"
)

var (
	ErrMissingUser      = errors.New("entry: user_id is required")
	ErrNegativeWords    = errors.New("entry: word_count cannot be negative")
	ErrMissingCreatedAt = errors.New("entry: created_at is required")
)

// JournalEntryEvent is the entry-created event produced by the journaling
// backend. The progress core consumes it once and never stores it; the entry
// itself is already durable before this event is emitted.
type JournalEntryEvent struct {
	UserID      uuid.UUID `json:"user_id"`
	Content     string    `json:"content"`
	WordCount   int       `json:"word_count"`
	Mood        string    `json:"mood,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	HasPhotos   bool      `json:"has_photos"`
	HasDrawings bool      `json:"has_drawings"`
}

func (e *JournalEntryEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if e.WordCount < 0 {
		return ErrNegativeWords
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}
	return nil
}

// Metric returns the slice of the event the counter metrics read.
func (e *JournalEntryEvent) Metric() metric.Entry {
	return metric.Entry{
		WordCount:   e.WordCount,
		Mood:        e.Mood,
		Content:     e.Content,
		CreatedAt:   e.CreatedAt,
		HasPhotos:   e.HasPhotos,
		HasDrawings: e.HasDrawings,
	}
}
