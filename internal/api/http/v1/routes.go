package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/linkshelf/url-shortener/internal/auth"
	"github.com/linkshelf/url-shortener/internal/models"
	"github.com/linkshelf/url-shortener/pkg/middleware/recoverer"
	"github.com/linkshelf/url-shortener/pkg/response"

	httpSwagger "github.com/swaggo/http-swagger"
)

// LinkService is the link engine behind the API.
type LinkService interface {
	// Shorten creates a link. A nil callerID creates an anonymous link.
	Shorten(ctx context.Context, originalURL string, callerID *int64) (*models.CreatedLink, error)

	// Resolve returns the redirect target of a short code and counts the click.
	Resolve(ctx context.Context, shortCode string) (string, error)

	List(ctx context.Context, callerID *int64) (*models.LinkList, error)
	GetByID(ctx context.Context, callerID *int64, id int64) (*models.PublicLink, error)
	Update(ctx context.Context, callerID *int64, id int64, originalURL string) (*models.PublicLink, error)
	SoftDelete(ctx context.Context, callerID *int64, id int64) (*models.DeletionReceipt, error)
}

// AuthService manages accounts and sessions.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.OwnerSummary, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Profile(ctx context.Context, userID int64) (*models.OwnerSummary, error)
}

// CookieConfig describes the session cookie set on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// getValidate initializes a validator that reports fields by their JSON names.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// requireCaller answers 401 to anonymous requests before any input is parsed.
func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.CallerID(r.Context()) == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter wires middleware, the versioned API, the redirect route and the API docs.
func NewRouter(
	logger *httplog.Logger,
	linkSvc LinkService,
	authSvc AuthService,
	tokens auth.TokenParser,
	cookie CookieConfig,
) http.Handler {
	if cookie.Name == "" {
		cookie.Name = auth.DefaultCookieName
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New())
	r.Use(auth.Identify(tokens, cookie.Name))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))
	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Route("/api/v1", func(r chi.Router) {
		validate := getValidate()

		r.Get("/ping", handlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc, validate))
			r.Post("/login", handleLogin(authSvc, validate, cookie))
			r.Post("/logout", handleLogout(cookie))
		})

		r.With(requireCaller).Get("/user", handleProfile(authSvc))

		r.Route("/short/url", func(r chi.Router) {
			r.Post("/", handleShorten(linkSvc, validate))
			r.With(requireCaller).Get("/", handleListLinks(linkSvc))

			r.Route("/{id}", func(r chi.Router) {
				r.Use(requireCaller)

				r.Get("/", handleGetLink(linkSvc))
				r.Put("/", handleUpdateLink(linkSvc, validate))
				r.Delete("/", handleDeleteLink(linkSvc))
			})
		})
	})

	r.Get("/{shortCode}", handleRedirect(linkSvc))

	return r
}
