// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. FailedAttempts and LockedUntil carry the
// login-lockout state; LockedUntil is checked lazily at authentication time.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsAdmin        bool
	Privilege      string
	IsActive       bool
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
}

// Locked reports whether the account is still inside its lockout window.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Principal is an authenticated actor derived from a validated access token.
type Principal struct {
	UserID    int64
	Privilege string
	IsAdmin   bool
}
