package domain

import (
	"encoding/json"
	"time"
)

// Role qualifies a manager edge on a group.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleMod   Role = "mod"
)

// Valid reports whether r is one of the supported manager roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMod
}

// Edge is a directed relation from the owning aggregate to a counterpart account.
type Edge struct {
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"date"`
	Role      Role      `json:"role,omitempty"`
}

// EdgeSet is an edge collection keyed by counterpart id.
// Iteration order is newest first; at most one edge exists per counterpart.
// The zero value is an empty set ready to use.
type EdgeSet struct {
	order []string
	index map[string]Edge
}

// NewEdgeSet builds a set from edges given newest first. Later duplicates are dropped.
func NewEdgeSet(edges ...Edge) EdgeSet {
	var s EdgeSet
	for _, e := range edges {
		s.appendOldest(e)
	}
	return s
}

// Has reports whether an edge to userID exists.
func (s *EdgeSet) Has(userID string) bool {
	_, ok := s.index[userID]
	return ok
}

// Get returns the edge to userID.
func (s *EdgeSet) Get(userID string) (Edge, bool) {
	e, ok := s.index[userID]
	return e, ok
}

// Add inserts e as the newest edge. It returns false and leaves the set untouched
// when an edge to the same counterpart already exists.
func (s *EdgeSet) Add(e Edge) bool {
	if e.UserID == "" || s.Has(e.UserID) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]Edge)
	}
	s.index[e.UserID] = e
	s.order = append([]string{e.UserID}, s.order...)
	return true
}

// Remove deletes the edge to userID and reports whether one existed.
func (s *EdgeSet) Remove(userID string) bool {
	if !s.Has(userID) {
		return false
	}
	delete(s.index, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of edges.
func (s *EdgeSet) Len() int {
	return len(s.order)
}

// Edges returns a copy of the edges, newest first.
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.index[id])
	}
	return out
}

// IDs returns the counterpart ids, newest first.
func (s *EdgeSet) IDs() []string {
	return append([]string(nil), s.order...)
}

// MarshalJSON encodes the set as an ordered array of edge records.
func (s EdgeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Edges())
}

// UnmarshalJSON decodes an ordered array of edge records. A counterpart listed twice
// keeps its first (newest) record.
func (s *EdgeSet) UnmarshalJSON(data []byte) error {
	var edges []Edge
	if err := json.Unmarshal(data, &edges); err != nil {
		return err
	}
	*s = NewEdgeSet(edges...)
	return nil
}

func (s *EdgeSet) appendOldest(e Edge) {
	if e.UserID == "" || s.Has(e.UserID) {
		return
	}
	if s.index == nil {
		s.index = make(map[string]Edge)
	}
	s.index[e.UserID] = e
	s.order = append(s.order, e.UserID)
}
