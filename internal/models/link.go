// Package models holds the domain types shared by the storage, service and delivery layers.
package models

import "time"

// Link represents one shortened URL.
type Link struct {
	// ID is assigned by the store and never changes.
	ID int64
	// OriginalURL is the redirect target. Only the owner may change it.
	OriginalURL string
	// ShortCode keys the link in public short URLs. It is unique across active and inactive links.
	ShortCode string
	// OwnerID references the user that created the link, nil for anonymous links.
	OwnerID *int64
	// Clicks counts successful resolutions of ShortCode.
	Clicks int64
	// Active is false once the owner soft-deletes the link.
	Active bool
	// CreatedAt is set once on creation.
	CreatedAt time.Time
	// ModifiedAt changes on owner updates and soft deletes, not on clicks.
	ModifiedAt time.Time
}

// IsOwnedBy reports whether the link belongs to the user with the given id.
func (l *Link) IsOwnedBy(userID int64) bool {
	return l.OwnerID != nil && *l.OwnerID == userID
}

// PublicLink is the owner-facing view of a link.
type PublicLink struct {
	ID          int64
	OriginalURL string
	ShortURL    string
	Clicks      int64
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// OwnerSummary is the part of a user that is safe to show next to a link.
type OwnerSummary struct {
	ID    int64
	Name  string
	Email string
}

// CreatedLink is returned by the shortening operation.
// Owner is nil when the link was created anonymously.
type CreatedLink struct {
	OriginalURL string
	ShortCode   string
	ShortURL    string
	Owner       *OwnerSummary
}

// LinkList is the result of listing the links of an owner.
type LinkList struct {
	Links []PublicLink
}

// IsEmpty reports whether the owner has no active links.
func (l LinkList) IsEmpty() bool {
	return len(l.Links) == 0
}

// DeletionReceipt confirms a soft delete. It carries the URLs because the link
// can no longer be looked up afterwards.
type DeletionReceipt struct {
	OriginalURL string
	ShortURL    string
}
