package domain

import "strings"

// Account is an identity registered with the platform.
type Account struct {
	Meta
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// DisplayName joins the first and last name.
func (a *Account) DisplayName() string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail lowercases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
