package domain

import (
	"encoding/json"
	"time"
)

// Aggregate kinds persisted in the document store.
const (
	KindAccount      = "account"
	KindProfile      = "profile"
	KindGroup        = "group"
	KindPost         = "post"
	KindConversation = "conversation"
)

// Aggregate is the stored document form of every aggregate kind.
// Version is incremented by the store on each successful save and is compared on update.
type Aggregate struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	OwnerID   string            `json:"owner_id,omitempty"`
	UniqueKey string            `json:"unique_key,omitempty"`
	Version   int               `json:"version"`
	Payload   json.RawMessage   `json:"payload"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (a *Aggregate) Touch() {
	if a == nil {
		return
	}
	a.UpdatedAt = time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = a.UpdatedAt
	}
}

// Meta carries the document identity shared by every domain aggregate.
type Meta struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetMeta copies the store-managed fields of a document.
func (m *Meta) SetMeta(doc *Aggregate) {
	m.ID = doc.ID
	m.Version = doc.Version
	m.CreatedAt = doc.CreatedAt
	m.UpdatedAt = doc.UpdatedAt
}
