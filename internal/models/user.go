package models

import "time"

// User captures application-facing fields for an authenticated identity.
// PasswordHash is empty for Google-only accounts and GoogleSubject is empty
// for credential-only accounts; at least one of the two is always set.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AvatarURL     string    `json:"image,omitempty"`
	PasswordHash  string    `json:"-"`
	GoogleSubject string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
