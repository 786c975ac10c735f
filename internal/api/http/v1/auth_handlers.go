package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/linkshelf/url-shortener/internal/auth"
	"github.com/linkshelf/url-shortener/pkg/response"
)

func handleRegister(svc AuthService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.v1.handleRegister"
	const successMsg = "The user was registered successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		user, err := svc.Register(r.Context(), auth.RegisterInput{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
		})
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrPasswordMismatch):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Passwords do not match."))
			case errors.Is(err, auth.ErrEmailTaken):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ErrorResponse("Email already registered."))
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toUserResponse(user)))
	}
}

// handleLogin returns a token in the body and also stores it in an http-only cookie.
func handleLogin(svc AuthService, validate *validator.Validate, cookie CookieConfig) http.HandlerFunc {
	const op = "api.http.v1.handleLogin"
	const successMsg = "Login successful."

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		session, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorResponse("Invalid credentials."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, loginResponse{
			User:      toUserResponse(session.User),
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		}))
	}
}

func handleLogout(cookie CookieConfig) http.HandlerFunc {
	const successMsg = "Logout successful."

	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

// handleProfile returns the caller's account data.
func handleProfile(svc AuthService) http.HandlerFunc {
	const op = "api.http.v1.handleProfile"
	const successMsg = "The user was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		callerID := auth.CallerID(r.Context())
		if callerID == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		user, err := svc.Profile(r.Context(), *callerID)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownCaller) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toUserResponse(user)))
	}
}
