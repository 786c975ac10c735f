// Package recoverer turns handler panics into the JSON server error envelope.
package recoverer

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/linkshelf/url-shortener/pkg/response"
)

// New returns a middleware that recovers from panics, attaches the panic and the stack
// to the request log entry and answers with a 500 envelope. http.ErrAbortHandler is re-raised.
func New() func(http.Handler) http.Handler {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				httplog.LogEntrySetFields(r.Context(), map[string]any{
					"op":    op,
					"panic": rvr,
					"stack": string(debug.Stack()),
				})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
