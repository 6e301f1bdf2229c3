// Package common defines shared constants and sentinel errors used across
// the file server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Service-level errors (generic/internal flow control).
	ErrInternal        = errors.New("internal error")
	ErrNotOwned        = errors.New("not owned")
	ErrInvalidArgument = errors.New("invalid argument")

	// Hierarchy errors.
	ErrNameConflict     = errors.New("name already exists")
	ErrWouldCreateCycle = errors.New("move would create cycle")
	ErrNonEmpty         = errors.New("folder not empty")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Share lifecycle errors.
	ErrShareNotFound = errors.New("share not found")
	ErrNoActiveShare = errors.New("no active share")

	// Identity errors.
	ErrAlreadyExists  = errors.New("already exists")
	ErrUserHasContent = errors.New("user still owns folders or files")
)
