package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const callerIDKey contextKey = "caller_id"

const DefaultCookieName = "jwt"

// TokenParser turns a token into the id of the user it was issued for.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// Identify resolves the caller from an "Authorization: Bearer" header or, failing that,
// from the named cookie. Requests without a valid token continue anonymously.
func Identify(tokens TokenParser, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					token = c.Value
				}
			}

			if token != "" {
				if userID, err := tokens.Parse(token); err == nil {
					r = r.WithContext(WithCallerID(r.Context(), userID))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "

	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return ""
}

func WithCallerID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, callerIDKey, userID)
}

// CallerID returns the id stored by Identify, or nil for anonymous requests.
func CallerID(ctx context.Context) *int64 {
	userID, ok := ctx.Value(callerIDKey).(int64)
	if !ok {
		return nil
	}

	return &userID
}
