// Package service implements the shortening engine, the redirect resolver and the
// owner-scoped link manager on top of the storage interfaces declared here.
package service

import (
	"context"
	"time"

	"github.com/linkshelf/url-shortener/internal/models"
)

// DefaultMaxAttempts bounds short code generation when no explicit value is configured.
const DefaultMaxAttempts = 5

// LinkRepository is the durable link store.
//
// Implementations report domain conditions with the sentinels of the database package:
// ErrShortCodeExists when Create hits an existing code and ErrLinkNotFound when a lookup
// or a conditional write matches no row.
type LinkRepository interface {
	// Create stores a new link and returns it with the id assigned.
	Create(ctx context.Context, link *models.Link) (*models.Link, error)

	// ShortCodeExists reports whether any link, active or not, uses the code.
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)

	// IncrementClicks atomically adds one click to the active link with the given code
	// and returns the updated link.
	IncrementClicks(ctx context.Context, shortCode string) (*models.Link, error)

	// Update writes the owner-mutable fields (original URL, active flag, modified time)
	// of an active link that belongs to link.OwnerID. Clicks are never written.
	Update(ctx context.Context, link *models.Link) (*models.Link, error)

	// ListByOwner returns the active links of the owner ordered by id.
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error)

	// GetByIDAndOwner returns the active link with the id if it belongs to the owner.
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Link, error)
}

// UserRepository resolves link owners.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// CodeGenerator produces candidate short codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// LinkService exposes every operation on links.
type LinkService struct {
	links       LinkRepository
	users       UserRepository
	codes       CodeGenerator
	formatter   Formatter
	maxAttempts int
	now         func() time.Time
}

type Option func(*LinkService)

// WithBaseURL sets the address short URLs are built on.
func WithBaseURL(baseURL string) Option {
	return func(s *LinkService) {
		s.formatter = NewFormatter(baseURL)
	}
}

// WithMaxAttempts sets how many codes are tried before giving up with ErrExhausted.
func WithMaxAttempts(n int) Option {
	return func(s *LinkService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *LinkService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewLinkService(links LinkRepository, users UserRepository, codes CodeGenerator, opts ...Option) *LinkService {
	s := &LinkService{
		links:       links,
		users:       users,
		codes:       codes,
		formatter:   NewFormatter("http://localhost:8080"),
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Formatter returns the formatter used to build public URLs.
func (s *LinkService) Formatter() Formatter {
	return s.formatter
}

func (s *LinkService) timestamp() time.Time {
	return s.now().UTC()
}
