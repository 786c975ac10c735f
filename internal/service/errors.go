package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers missing input and links that are absent or owned by someone else
	// on mutating calls, so callers can't probe which ids exist.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned by read paths when no matching active link exists.
	ErrNotFound = errors.New("link not found")

	// ErrAuthenticationRequired is returned by owner-scoped calls made without a caller.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrExhausted is returned when every generated short code collided with an existing one.
	ErrExhausted = errors.New("short code generation attempts exhausted")

	// ErrStoreUnavailable wraps any storage failure that is not a domain condition.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeError(op, action string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", op, action, ErrStoreUnavailable, err)
}
