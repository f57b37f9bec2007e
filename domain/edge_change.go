package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EdgeAction is the direction of an EdgeChange.
type EdgeAction string

const (
	EdgeAdd    EdgeAction = "add"
	EdgeRemove EdgeAction = "remove"
)

// EdgeChange is an idempotent mutation of one edge collection on one profile.
// Adding an edge that exists or removing one that does not is a no-op, so a change
// may be replayed any number of times.
type EdgeChange struct {
	OwnerID    string     `json:"owner_id"`
	Collection Collection `json:"collection"`
	Action     EdgeAction `json:"action"`
	Edge       Edge       `json:"edge"`
}

// OperationID is stable for the same owner, collection, action and counterpart.
func (c EdgeChange) OperationID() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		c.OwnerID,
		string(c.Collection),
		string(c.Action),
		c.Edge.UserID,
	}, "\x00")))
	return hex.EncodeToString(sum[:16])
}

// Valid reports whether the change names an owner, a known collection and a counterpart.
func (c EdgeChange) Valid() bool {
	if c.OwnerID == "" || c.Edge.UserID == "" {
		return false
	}
	if c.Action != EdgeAdd && c.Action != EdgeRemove {
		return false
	}
	return c.Collection.Valid()
}

// Apply mutates the matching collection of p and reports whether anything changed.
func (c EdgeChange) Apply(p *Profile) bool {
	set := p.Collection(c.Collection)
	if set == nil {
		return false
	}
	if c.Action == EdgeAdd {
		return set.Add(c.Edge)
	}
	return set.Remove(c.Edge.UserID)
}

// Mirror names the collection on the counterpart's profile that decides whether
// the change still stands. A friend request is settled by a friendship.
func (c EdgeChange) Mirror() Collection {
	switch c.Collection {
	case CollectionFollowers:
		return CollectionFollowings
	case CollectionFollowings:
		return CollectionFollowers
	}
	return CollectionFriends
}

// Holds reports whether primary, the profile of the edge's counterpart, still agrees
// with the change. A change that disagrees was overtaken by a later operation on the
// same pair. A nil primary holds no edges.
func (c EdgeChange) Holds(primary *Profile) bool {
	held := false
	if primary != nil {
		held = primary.Collection(c.Mirror()).Has(c.OwnerID)
	}
	if c.Collection == CollectionFriendRequests {
		return c.Action == EdgeRemove && held
	}
	return held == (c.Action == EdgeAdd)
}
