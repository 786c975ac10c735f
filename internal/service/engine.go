package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

// Shorten stores a new link for originalURL and returns its public form.
//
// A nil callerID creates an anonymous link. A caller that no longer resolves to an active
// user is treated the same way instead of failing the request.
func (s *LinkService) Shorten(ctx context.Context, originalURL string, callerID *int64) (*models.CreatedLink, error) {
	const op = "service.LinkService.Shorten"

	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" {
		return nil, fmt.Errorf("%s: original url is empty: %w", op, ErrValidation)
	}

	owner, err := s.resolveOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		shortCode, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		exists, err := s.links.ShortCodeExists(ctx, shortCode)
		if err != nil {
			return nil, storeError(op, "failed to check short code", err)
		}
		if exists {
			continue
		}

		now := s.timestamp()
		link := &models.Link{
			OriginalURL: originalURL,
			ShortCode:   shortCode,
			Active:      true,
			CreatedAt:   now,
			ModifiedAt:  now,
		}
		if owner != nil {
			ownerID := owner.ID
			link.OwnerID = &ownerID
		}

		created, err := s.links.Create(ctx, link)
		if err != nil {
			// Another writer took the code between the check and the insert.
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			return nil, storeError(op, "failed to create link", err)
		}

		return s.formatter.Created(created, owner), nil
	}

	return nil, fmt.Errorf("%s: %d attempts: %w", op, s.maxAttempts, ErrExhausted)
}

func (s *LinkService) resolveOwner(ctx context.Context, callerID *int64) (*models.OwnerSummary, error) {
	if callerID == nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, *callerID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, nil
		}

		return nil, storeError("service.LinkService.resolveOwner", "failed to get user", err)
	}
	if !user.Active {
		return nil, nil
	}

	return user.Summary(), nil
}
