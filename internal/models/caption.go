package models

import "time"

// Caption is a generated LinkedIn post caption stored under its owner.
type Caption struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Prompt    string    `json:"prompt"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
