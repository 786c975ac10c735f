package http

import (
	"time"

	"github.com/linkshelf/url-shortener/internal/models"
)

// notAuthenticatedOwner replaces the owner object of anonymous links.
const notAuthenticatedOwner = "Not authenticated"

type linkRequest struct {
	OriginalURL string `json:"original_url" validate:"required"`
}

type registerRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(owner *models.OwnerSummary) userResponse {
	return userResponse{
		ID:    owner.ID,
		Name:  owner.Name,
		Email: owner.Email,
	}
}

type loginResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type createdLinkResponse struct {
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
	// Owner is a userResponse or the notAuthenticatedOwner marker.
	Owner any `json:"owner"`
}

func toCreatedLinkResponse(link *models.CreatedLink) createdLinkResponse {
	resp := createdLinkResponse{
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Owner:       notAuthenticatedOwner,
	}

	if link.Owner != nil {
		resp.Owner = toUserResponse(link.Owner)
	}

	return resp
}

type linkResponse struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

func toLinkResponse(link *models.PublicLink) linkResponse {
	return linkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt,
		ModifiedAt:  link.ModifiedAt,
	}
}

func toLinkListResponse(list *models.LinkList) []linkResponse {
	resp := make([]linkResponse, 0, len(list.Links))
	for i := range list.Links {
		resp = append(resp, toLinkResponse(&list.Links[i]))
	}

	return resp
}

type deletionResponse struct {
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
}

func toDeletionResponse(receipt *models.DeletionReceipt) deletionResponse {
	return deletionResponse{
		OriginalURL: receipt.OriginalURL,
		ShortURL:    receipt.ShortURL,
	}
}
