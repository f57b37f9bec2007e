package domain

import "time"

// Conversation is a direct message thread between exactly two accounts.
// Only one conversation exists per unordered pair.
type Conversation struct {
	Meta
	Participant1 string    `json:"user1"`
	Participant2 string    `json:"user2"`
	Messages     []Message `json:"messages"`
	RecentDate   time.Time `json:"recent_date"`
}

// Message is a single entry of a conversation, stored newest first.
type Message struct {
	ID   string    `json:"id"`
	From string    `json:"from"`
	To   string    `json:"to"`
	Text string    `json:"text"`
	Read bool      `json:"read"`
	Date time.Time `json:"date"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Participant1 == userID || c.Participant2 == userID)
}

// Connects reports whether the conversation is between a and b in either order.
func (c *Conversation) Connects(a, b string) bool {
	return (c.Participant1 == a && c.Participant2 == b) || (c.Participant1 == b && c.Participant2 == a)
}

// Append stores m as the newest message and advances RecentDate.
func (c *Conversation) Append(m Message) {
	c.Messages = append([]Message{m}, c.Messages...)
	if m.Date.After(c.RecentDate) {
		c.RecentDate = m.Date
	}
}

// PairKey is the order-independent identity of a conversation between a and b.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
