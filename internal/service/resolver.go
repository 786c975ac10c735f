package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/shortcode"
)

// Resolve returns the target of an active short code and accounts one click for it.
// Unknown, malformed and soft-deleted codes all yield ErrNotFound. Malformed codes never reach the store.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	const op = "service.LinkService.Resolve"

	if !shortcode.Valid(shortCode, len(shortCode)) {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	link, err := s.links.IncrementClicks(ctx, shortCode)
	if err != nil {
		if errors.Is(err, database.ErrLinkNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", storeError(op, "failed to account click", err)
	}

	return link.OriginalURL, nil
}
