package models

import "time"

type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don’t expose hash
	CreatedAt    time.Time `json:"-"`
}

// Identity is the authenticated caller, and also the author snapshot embedded in a post.
type Identity struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Identity returns the public part of u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
