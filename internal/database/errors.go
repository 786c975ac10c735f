package database

import "errors"

var (
	// ErrShortCodeExists is returned when an attempt is made to create
	// a link with a short code that is already taken by an active or inactive link.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrLinkNotFound is returned when no link matches the lookup.
	ErrLinkNotFound = errors.New("link not found")
	// ErrUserNotFound is returned when no active user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when an attempt is made to register
	// a second account with the same email.
	ErrEmailExists = errors.New("email exists")
)
