// Package memory keeps links and users in process memory. It serves local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

// LinkRepository stores links behind a single mutex, so every write,
// including click increments, is serialized.
type LinkRepository struct {
	mu      sync.RWMutex
	links   map[int64]*models.Link
	byCode  map[string]int64
	counter int64
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		links:  make(map[int64]*models.Link),
		byCode: make(map[string]int64),
	}
}

func copyLink(link *models.Link) *models.Link {
	c := *link
	if link.OwnerID != nil {
		ownerID := *link.OwnerID
		c.OwnerID = &ownerID
	}

	return &c
}

func (r *LinkRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[link.ShortCode]; exists {
		return nil, database.ErrShortCodeExists
	}

	r.counter++
	stored := copyLink(link)
	stored.ID = r.counter
	stored.Clicks = 0

	r.links[stored.ID] = stored
	r.byCode[stored.ShortCode] = stored.ID

	return copyLink(stored), nil
}

func (r *LinkRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byCode[shortCode]
	return exists, nil
}

func (r *LinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCode[shortCode]
	if !ok || !r.links[id].Active {
		return nil, database.ErrLinkNotFound
	}

	link := r.links[id]
	link.Clicks++

	return copyLink(link), nil
}

func (r *LinkRepository) Update(ctx context.Context, link *models.Link) (*models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.links[link.ID]
	if !ok || !stored.Active || link.OwnerID == nil || !stored.IsOwnedBy(*link.OwnerID) {
		return nil, database.ErrLinkNotFound
	}

	stored.OriginalURL = link.OriginalURL
	stored.Active = link.Active
	stored.ModifiedAt = link.ModifiedAt

	return copyLink(stored), nil
}

func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []models.Link
	for _, link := range r.links {
		if link.Active && link.IsOwnedBy(ownerID) {
			links = append(links, *copyLink(link))
		}
	}

	slices.SortFunc(links, func(a, b models.Link) int {
		return int(a.ID - b.ID)
	})

	return links, nil
}

func (r *LinkRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[id]
	if !ok || !link.Active || !link.IsOwnedBy(ownerID) {
		return nil, database.ErrLinkNotFound
	}

	return copyLink(link), nil
}
