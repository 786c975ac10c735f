package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

func requireCaller(op string, callerID *int64) (int64, error) {
	if callerID == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	}

	return *callerID, nil
}

// List returns the active links of the caller. An owner without links gets an empty list.
func (s *LinkService) List(ctx context.Context, callerID *int64) (*models.LinkList, error) {
	const op = "service.LinkService.List"

	ownerID, err := requireCaller(op, callerID)
	if err != nil {
		return nil, err
	}

	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(op, "failed to list links", err)
	}

	return s.formatter.List(links), nil
}

// GetByID returns one active link of the caller.
func (s *LinkService) GetByID(ctx context.Context, callerID *int64, id int64) (*models.PublicLink, error) {
	const op = "service.LinkService.GetByID"

	ownerID, err := requireCaller(op, callerID)
	if err != nil {
		return nil, err
	}

	link, err := s.links.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, database.ErrLinkNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storeError(op, "failed to get link", err)
	}

	public := s.formatter.Public(link)
	return &public, nil
}

// Update points an active link of the caller at a new URL. The short code is kept.
func (s *LinkService) Update(ctx context.Context, callerID *int64, id int64, originalURL string) (*models.PublicLink, error) {
	const op = "service.LinkService.Update"

	ownerID, err := requireCaller(op, callerID)
	if err != nil {
		return nil, err
	}

	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" {
		return nil, fmt.Errorf("%s: original url is empty: %w", op, ErrValidation)
	}

	link, err := s.ownedLink(ctx, op, id, ownerID)
	if err != nil {
		return nil, err
	}

	link.OriginalURL = originalURL
	link.ModifiedAt = s.timestamp()

	updated, err := s.write(ctx, op, link)
	if err != nil {
		return nil, err
	}

	public := s.formatter.Public(updated)
	return &public, nil
}

// SoftDelete deactivates an active link of the caller. A second call on the same link
// fails with ErrValidation because the link is no longer visible.
func (s *LinkService) SoftDelete(ctx context.Context, callerID *int64, id int64) (*models.DeletionReceipt, error) {
	const op = "service.LinkService.SoftDelete"

	ownerID, err := requireCaller(op, callerID)
	if err != nil {
		return nil, err
	}

	link, err := s.ownedLink(ctx, op, id, ownerID)
	if err != nil {
		return nil, err
	}

	link.Active = false
	link.ModifiedAt = s.timestamp()

	deleted, err := s.write(ctx, op, link)
	if err != nil {
		return nil, err
	}

	return s.formatter.Receipt(deleted), nil
}

func (s *LinkService) ownedLink(ctx context.Context, op string, id, ownerID int64) (*models.Link, error) {
	link, err := s.links.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, database.ErrLinkNotFound) {
			return nil, fmt.Errorf("%s: link %d: %w", op, id, ErrValidation)
		}

		return nil, storeError(op, "failed to get link", err)
	}

	return link, nil
}

func (s *LinkService) write(ctx context.Context, op string, link *models.Link) (*models.Link, error) {
	updated, err := s.links.Update(ctx, link)
	if err != nil {
		// The link was deleted by a concurrent request after it was read.
		if errors.Is(err, database.ErrLinkNotFound) {
			return nil, fmt.Errorf("%s: link %d: %w", op, link.ID, ErrValidation)
		}

		return nil, storeError(op, "failed to update link", err)
	}

	return updated, nil
}
