package models

import "time"

// User is an account that can own links.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// Summary returns the public part of the user.
func (u *User) Summary() *OwnerSummary {
	return &OwnerSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
