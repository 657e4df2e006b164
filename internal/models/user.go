package models

import "strings"

const GuestLabel = "Guest"

// Identity is produced by the login screens and only labels outgoing orders.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (i *Identity) Label() string {
	if i == nil {
		return GuestLabel
	}
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(i.Email); email != "" {
		return email
	}
	return GuestLabel
}
