package domain

import "time"

// Profile holds the contact data the store keeps per registered user.
// Email may be empty for accounts created through social sign-in flows
// that withheld the address.
type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
