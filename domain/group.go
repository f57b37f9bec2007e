package domain

// Group is a community with a membership state machine:
// NONE -> REQUESTED -> MEMBER -> MEMBER+MANAGER(role).
// A created group always has at least one member and Code is unique across groups.
type Group struct {
	Meta
	CreatorID      string  `json:"creator"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	Description    string  `json:"description,omitempty"`
	Members        EdgeSet `json:"members"`
	MemberRequests EdgeSet `json:"member_requests"`
	Managers       EdgeSet `json:"managers"`
}

// IsManager reports whether userID holds any manager role.
func (g *Group) IsManager(userID string) bool {
	return g.Managers.Has(userID)
}
