package buffer

import (
	"time"

	"github.com/fastygo/social/domain"
)

// Item is a counterpart edge change waiting to be replayed.
// ID is the change's operation id, so the same change is held at most once.
type Item struct {
	ID         string            `json:"id"`
	Change     domain.EdgeChange `json:"change"`
	Retries    int               `json:"retries"`
	LastError  string            `json:"last_error,omitempty"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
	Timestamp  time.Time         `json:"timestamp"`

	bucketKey []byte
}

// NewItem wraps change for the queue.
func NewItem(change domain.EdgeChange) Item {
	return Item{ID: change.OperationID(), Change: change}
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = i.Change.OperationID()
	}
	now := time.Now().UTC()
	if i.Timestamp.IsZero() {
		i.Timestamp = now
	}
	if i.EnqueuedAt.IsZero() {
		i.EnqueuedAt = i.Timestamp
	}
}
