package entities

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownItem     = errors.New("unknown item")
)

// Conflict errors. Raised inside the same atomic section as the attempted
// mutation, so a rejected call never leaves partial state behind.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyClaimed     = errors.New("already claimed")
	ErrSelfClaimForbidden = errors.New("self claim forbidden")
	ErrDuplicateTicket    = errors.New("requester already has an open ticket")
	ErrNotOwner           = errors.New("not the channel owner")
	ErrForbidden          = errors.New("forbidden")
	ErrTicketClosing      = errors.New("ticket is already closing")
	ErrAlreadyOwned       = errors.New("item already owned")
)

// ErrNotFound marks a stale reference (unknown claim, deleted ticket, missing message)
var ErrNotFound = errors.New("not found")

// ErrKeyNotLocked is returned when a mutation touches an entity it did not lock
var ErrKeyNotLocked = errors.New("entity key not locked by this mutation")

// Platform failure classes, normalized from the chat platform's REST errors
var (
	ErrPlatformNotFound    = fmt.Errorf("platform: %w", ErrNotFound)
	ErrPlatformForbidden   = errors.New("platform: missing permissions")
	ErrPlatformRateLimited = errors.New("platform: rate limited")
)

// PersistenceError reports a failed durable write. The in-memory state that
// produced it stays authoritative for the running process.
type PersistenceError struct {
	Version int64
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist state version %d: %v", e.Version, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err carries a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsTransientPlatformError reports whether err is a permission or rate-limit failure
func IsTransientPlatformError(err error) bool {
	return errors.Is(err, ErrPlatformForbidden) || errors.Is(err, ErrPlatformRateLimited)
}
