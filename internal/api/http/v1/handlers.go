package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/linkshelf/url-shortener/internal/auth"
	"github.com/linkshelf/url-shortener/pkg/response"
)

const (
	invalidIDMsg = "Invalid link id."
	noLinksMsg   = "User doesn't have shortened URLs."
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

func linkID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// handleShorten creates a short link. Anonymous callers are allowed.
func handleShorten(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.v1.handleShorten"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req linkRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		link, err := svc.Shorten(r.Context(), req.OriginalURL, auth.CallerID(r.Context()))
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toCreatedLinkResponse(link)))
	}
}

// handleListLinks lists the active links of the caller. An empty list is not an error.
func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.v1.handleListLinks"
	const successMsg = "The URLs were retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), auth.CallerID(r.Context()))
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		msg := successMsg
		if list.IsEmpty() {
			msg = noLinksMsg
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(msg, toLinkListResponse(list)))
	}
}

func handleGetLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.v1.handleGetLink"
	const successMsg = "The URL was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := linkID(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse(invalidIDMsg))
			return
		}

		link, err := svc.GetByID(r.Context(), auth.CallerID(r.Context()), id)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// handleUpdateLink points a link at a new URL. The short code is kept.
func handleUpdateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.v1.handleUpdateLink"
	const successMsg = "The URL was updated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := linkID(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse(invalidIDMsg))
			return
		}

		var req linkRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		link, err := svc.Update(r.Context(), auth.CallerID(r.Context()), id, req.OriginalURL)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// handleDeleteLink soft-deletes a link and echoes its URLs back.
func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.v1.handleDeleteLink"
	const successMsg = "The URL was deleted successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := linkID(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse(invalidIDMsg))
			return
		}

		receipt, err := svc.SoftDelete(r.Context(), auth.CallerID(r.Context()), id)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toDeletionResponse(receipt)))
	}
}

// handleRedirect sends the client to the original URL of an active short code.
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.v1.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		target, err := svc.Resolve(r.Context(), chi.URLParam(r, "shortCode"))
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}
