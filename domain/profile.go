package domain

import "time"

// Collection names an edge collection on a profile.
type Collection string

const (
	CollectionFollowers      Collection = "followers"
	CollectionFollowings     Collection = "followings"
	CollectionFriends        Collection = "friends"
	CollectionFriendRequests Collection = "friend_requests"
)

// Valid reports whether c names a profile edge collection.
func (c Collection) Valid() bool {
	switch c {
	case CollectionFollowers, CollectionFollowings, CollectionFriends, CollectionFriendRequests:
		return true
	}
	return false
}

// Profile is the per-account social aggregate.
// For profiles A and B: A.Followings has B iff B.Followers has A, and
// A.Friends has B iff B.Friends has A.
type Profile struct {
	Meta
	UserID   string   `json:"user"`
	Company  string   `json:"company,omitempty"`
	Website  string   `json:"website,omitempty"`
	Location string   `json:"location,omitempty"`
	Status   string   `json:"status,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Social   Social   `json:"social"`

	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`

	Followers      EdgeSet `json:"followers"`
	Followings     EdgeSet `json:"followings"`
	Friends        EdgeSet `json:"friends"`
	FriendRequests EdgeSet `json:"friend_requests"`
}

// Collection returns the edge set named c, or nil for an unknown name.
func (p *Profile) Collection(c Collection) *EdgeSet {
	switch c {
	case CollectionFollowers:
		return &p.Followers
	case CollectionFollowings:
		return &p.Followings
	case CollectionFriends:
		return &p.Friends
	case CollectionFriendRequests:
		return &p.FriendRequests
	}
	return nil
}

// Social holds external profile links.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Experience is a keyed work history entry.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a keyed education history entry.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree,omitempty"`
	FieldOfStudy string     `json:"field_of_study,omitempty"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// RemoveExperience drops the entry with id and reports whether it existed.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveEducation drops the entry with id and reports whether it existed.
func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
