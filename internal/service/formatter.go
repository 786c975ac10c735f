package service

import (
	"strings"

	"github.com/linkshelf/url-shortener/internal/models"
)

// Formatter shapes stored links into their public representations.
type Formatter struct {
	baseURL string
}

func NewFormatter(baseURL string) Formatter {
	return Formatter{baseURL: strings.TrimRight(baseURL, "/")}
}

// ShortURL joins the base address and the code.
func (f Formatter) ShortURL(shortCode string) string {
	return f.baseURL + "/" + shortCode
}

func (f Formatter) Public(link *models.Link) models.PublicLink {
	return models.PublicLink{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    f.ShortURL(link.ShortCode),
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt,
		ModifiedAt:  link.ModifiedAt,
	}
}

func (f Formatter) Created(link *models.Link, owner *models.OwnerSummary) *models.CreatedLink {
	return &models.CreatedLink{
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    f.ShortURL(link.ShortCode),
		Owner:       owner,
	}
}

func (f Formatter) Receipt(link *models.Link) *models.DeletionReceipt {
	return &models.DeletionReceipt{
		OriginalURL: link.OriginalURL,
		ShortURL:    f.ShortURL(link.ShortCode),
	}
}

func (f Formatter) List(links []models.Link) *models.LinkList {
	list := &models.LinkList{Links: make([]models.PublicLink, 0, len(links))}
	for i := range links {
		list.Links = append(list.Links, f.Public(&links[i]))
	}

	return list
}
