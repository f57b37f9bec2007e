// Package document maps domain aggregates to stored documents and back.
// Each repository performs exactly one store round trip per load or save.
package document

import (
	"encoding/json"
	"errors"

	"github.com/fastygo/social/domain"
)

// Unique key prefixes. They are part of the persisted layout.
const (
	keyEmail = "email:"
	keyOwner = "owner:"
	keyCode  = "code:"
	keyPair  = "pair:"
)

// Label keys. They are part of the persisted layout.
const (
	labelName         = "name"
	labelCreator      = "creator"
	labelParticipant1 = "participant1"
	labelParticipant2 = "participant2"
)

type metaCarrier interface {
	SetMeta(doc *domain.Aggregate)
}

// encode marshals v into a document, carrying over the identity held in meta.
func encode(kind string, meta domain.Meta, v interface{}) (*domain.Aggregate, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &domain.Aggregate{
		ID:        meta.ID,
		Kind:      kind,
		Version:   meta.Version,
		Payload:   payload,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}, nil
}

// decode unmarshals the payload of doc into v; the document identity wins over the payload.
func decode(doc *domain.Aggregate, v metaCarrier) error {
	if err := json.Unmarshal(doc.Payload, v); err != nil {
		return err
	}
	v.SetMeta(doc)
	return nil
}

// notFound replaces the store's generic miss with the aggregate-specific one.
func notFound(err error, replacement error) error {
	if errors.Is(err, domain.ErrAggregateNotFound) {
		return replacement
	}
	return err
}
