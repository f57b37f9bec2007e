package domain

import "time"

// Post is a user-authored entry with its engagement ledger.
// An account appears at most once in Likes and at most once in Shares.
type Post struct {
	Meta
	AuthorID string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	Likes    EdgeSet   `json:"likes"`
	Comments []Comment `json:"comments"`
	Shares   EdgeSet   `json:"shares"`
}

// Comment is independently keyed and removable only by its author.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"date"`
}

// FindComment returns the index of the comment with id, or -1.
func (p *Post) FindComment(id string) int {
	for i, c := range p.Comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
