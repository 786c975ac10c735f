package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/linkshelf/url-shortener/internal/service"
	"github.com/linkshelf/url-shortener/pkg/response"
)

const invalidLinkMsg = "The link was not found or the provided data is invalid."

// renderServiceError maps the service error taxonomy onto status codes.
func renderServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(invalidLinkMsg))
	case errors.Is(err, service.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ResourceNotFoundResponse)
	case errors.Is(err, service.ErrAuthenticationRequired):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.UnauthorizedResponse)
	case errors.Is(err, service.ErrExhausted), errors.Is(err, service.ErrStoreUnavailable):
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.ServiceUnavailableResponse)
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		render.Status(r, http.StatusBadRequest)

		if errors.Is(err, io.EOF) {
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		render.JSON(w, r, response.BadRequestResponse)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return false
	}

	return true
}
