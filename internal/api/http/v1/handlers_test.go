package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/linkshelf/url-shortener/internal/auth"
	"github.com/linkshelf/url-shortener/internal/models"
	"github.com/linkshelf/url-shortener/internal/service"
	"github.com/linkshelf/url-shortener/pkg/response"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockLinkService struct {
	mock.Mock
}

func (s *MockLinkService) Shorten(ctx context.Context, originalURL string, callerID *int64) (*models.CreatedLink, error) {
	args := s.Called(ctx, originalURL, callerID)
	link, _ := args.Get(0).(*models.CreatedLink)
	return link, args.Error(1)
}

func (s *MockLinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	args := s.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (s *MockLinkService) List(ctx context.Context, callerID *int64) (*models.LinkList, error) {
	args := s.Called(ctx, callerID)
	list, _ := args.Get(0).(*models.LinkList)
	return list, args.Error(1)
}

func (s *MockLinkService) GetByID(ctx context.Context, callerID *int64, id int64) (*models.PublicLink, error) {
	args := s.Called(ctx, callerID, id)
	link, _ := args.Get(0).(*models.PublicLink)
	return link, args.Error(1)
}

func (s *MockLinkService) Update(ctx context.Context, callerID *int64, id int64, originalURL string) (*models.PublicLink, error) {
	args := s.Called(ctx, callerID, id, originalURL)
	link, _ := args.Get(0).(*models.PublicLink)
	return link, args.Error(1)
}

func (s *MockLinkService) SoftDelete(ctx context.Context, callerID *int64, id int64) (*models.DeletionReceipt, error) {
	args := s.Called(ctx, callerID, id)
	receipt, _ := args.Get(0).(*models.DeletionReceipt)
	return receipt, args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (s *MockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*models.OwnerSummary, error) {
	args := s.Called(ctx, in)
	user, _ := args.Get(0).(*models.OwnerSummary)
	return user, args.Error(1)
}

func (s *MockAuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := s.Called(ctx, email, password)
	session, _ := args.Get(0).(*auth.Session)
	return session, args.Error(1)
}

func (s *MockAuthService) Profile(ctx context.Context, userID int64) (*models.OwnerSummary, error) {
	args := s.Called(ctx, userID)
	user, _ := args.Get(0).(*models.OwnerSummary)
	return user, args.Error(1)
}

const callerID = int64(7)

// anonymous matches a nil caller id.
var anonymous = mock.MatchedBy(func(id *int64) bool { return id == nil })

// caller matches the id carried by the test token.
var caller = mock.MatchedBy(func(id *int64) bool { return id != nil && *id == callerID })

type HandlersTestSuite struct {
	suite.Suite
	logger      *httplog.Logger
	tokens      *auth.TokenManager
	token       string
	linkSvcMock *MockLinkService
	authSvcMock *MockAuthService
	server      *httptest.Server
	e           *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
	suite.tokens = auth.NewTokenManager("secret", time.Hour, "test")

	token, _, err := suite.tokens.Issue(callerID)
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.linkSvcMock = new(MockLinkService)
	suite.authSvcMock = new(MockAuthService)
	router := NewRouter(suite.logger, suite.linkSvcMock, suite.authSvcMock, suite.tokens, CookieConfig{})
	suite.server = httptest.NewServer(router)
	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.linkSvcMock.AssertExpectations(suite.T())
	suite.authSvcMock.AssertExpectations(suite.T())
	suite.server.Close()
}

func (suite *HandlersTestSuite) authorized(req *httpexpect.Request) *httpexpect.Request {
	return req.WithHeader("Authorization", "Bearer "+suite.token)
}

func (suite *HandlersTestSuite) TestPing() {
	suite.Run("success", func() {
		suite.e.GET("/api/v1/ping").
			Expect().
			Status(http.StatusOK).
			Text().IsEqual("pong\n")
	})
}

func (suite *HandlersTestSuite) TestShorten() {
	const path = "/api/v1/short/url"

	suite.Run("empty request body", func() {
		suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.EmptyRequestBodyResponse.Message)
	})

	suite.Run("invalid request body", func() {
		suite.e.POST(path).
			WithJSON("invalid body").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("message", response.BadRequestResponse.Message)
	})

	suite.Run("validation error", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"original_url": "not a url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("status", response.StatusError).
			ContainsKey("errors")
	})

	suite.Run("anonymous", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "https://example.com", anonymous).
			Once().
			Return(&models.CreatedLink{
				OriginalURL: "https://example.com",
				ShortCode:   "ABC123",
				ShortURL:    "http://localhost:8080/ABC123",
			}, nil)

		data := suite.e.POST(path).
			WithJSON(map[string]string{"original_url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			Value("data").Object()

		data.HasValue("original_url", "https://example.com")
		data.HasValue("short_url", "http://localhost:8080/ABC123")
		data.HasValue("owner", "Not authenticated")
	})

	suite.Run("authenticated", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "https://example.com", caller).
			Once().
			Return(&models.CreatedLink{
				OriginalURL: "https://example.com",
				ShortCode:   "ABC123",
				ShortURL:    "http://localhost:8080/ABC123",
				Owner:       &models.OwnerSummary{ID: callerID, Name: "Jane", Email: "jane@example.com"},
			}, nil)

		owner := suite.authorized(suite.e.POST(path)).
			WithJSON(map[string]string{"original_url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			Value("owner").Object()

		owner.HasValue("id", callerID)
		owner.HasValue("name", "Jane")
		owner.HasValue("email", "jane@example.com")
	})

	suite.Run("invalid token is anonymous", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "https://example.com", anonymous).
			Once().
			Return(&models.CreatedLink{OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/ABC123"}, nil)

		suite.e.POST(path).
			WithHeader("Authorization", "Bearer broken").
			WithJSON(map[string]string{"original_url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated)
	})

	suite.Run("url without scheme", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "example.com", anonymous).
			Once().
			Return(&models.CreatedLink{OriginalURL: "example.com", ShortURL: "http://localhost:8080/ABC123"}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"original_url": "example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("original_url", "example.com")
	})

	suite.Run("attempts exhausted", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "https://example.com", anonymous).
			Once().
			Return(nil, service.ErrExhausted)

		suite.e.POST(path).
			WithJSON(map[string]string{"original_url": "https://example.com"}).
			Expect().
			Status(http.StatusServiceUnavailable).
			JSON().Object().
			HasValue("message", response.ServiceUnavailableResponse.Message)
	})

	suite.Run("server error", func() {
		suite.linkSvcMock.
			On("Shorten", mock.Anything, "https://example.com", anonymous).
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.POST(path).
			WithJSON(map[string]string{"original_url": "https://example.com"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("message", response.ServerErrorResponse.Message)
	})
}

func (suite *HandlersTestSuite) TestListLinks() {
	const path = "/api/v1/short/url"

	suite.Run("anonymous", func() {
		suite.e.GET(path).
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object().
			HasValue("message", response.UnauthorizedResponse.Message)
	})

	suite.Run("empty", func() {
		suite.linkSvcMock.
			On("List", mock.Anything, caller).
			Once().
			Return(&models.LinkList{Links: []models.PublicLink{}}, nil)

		obj := suite.authorized(suite.e.GET(path)).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		obj.HasValue("message", noLinksMsg)
		obj.Value("data").Array().IsEmpty()
	})

	suite.Run("success with cookie", func() {
		suite.linkSvcMock.
			On("List", mock.Anything, caller).
			Once().
			Return(&models.LinkList{Links: []models.PublicLink{
				{ID: 1, OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/ABC123", Clicks: 4},
			}}, nil)

		links := suite.e.GET(path).
			WithCookie(auth.DefaultCookieName, suite.token).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Array()

		links.Length().IsEqual(1)
		links.Value(0).Object().HasValue("clicks", 4)
	})
}

func (suite *HandlersTestSuite) TestGetLink() {
	suite.Run("anonymous with invalid id", func() {
		suite.e.GET("/api/v1/short/url/abc").
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object().
			HasValue("message", response.UnauthorizedResponse.Message)
	})

	suite.Run("invalid id", func() {
		suite.authorized(suite.e.GET("/api/v1/short/url/abc")).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("message", invalidIDMsg)
	})

	suite.Run("not found", func() {
		suite.linkSvcMock.
			On("GetByID", mock.Anything, caller, int64(5)).
			Once().
			Return(nil, service.ErrNotFound)

		suite.authorized(suite.e.GET("/api/v1/short/url/5")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("message", response.ResourceNotFoundResponse.Message)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("GetByID", mock.Anything, caller, int64(5)).
			Once().
			Return(&models.PublicLink{ID: 5, OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/ABC123"}, nil)

		suite.authorized(suite.e.GET("/api/v1/short/url/5")).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("id", 5).
			HasValue("short_url", "http://localhost:8080/ABC123")
	})
}

func (suite *HandlersTestSuite) TestUpdateLink() {
	suite.Run("anonymous without body", func() {
		suite.e.PUT("/api/v1/short/url/1").
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object().
			HasValue("message", response.UnauthorizedResponse.Message)
	})

	suite.Run("validation error", func() {
		suite.authorized(suite.e.PUT("/api/v1/short/url/5")).
			WithJSON(map[string]string{"original_url": ""}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			ContainsKey("errors")
	})

	suite.Run("link of another owner", func() {
		suite.linkSvcMock.
			On("Update", mock.Anything, caller, int64(5), "https://new.com").
			Once().
			Return(nil, service.ErrValidation)

		suite.authorized(suite.e.PUT("/api/v1/short/url/5")).
			WithJSON(map[string]string{"original_url": "https://new.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("message", invalidLinkMsg)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("Update", mock.Anything, caller, int64(5), "https://new.com").
			Once().
			Return(&models.PublicLink{ID: 5, OriginalURL: "https://new.com", ShortURL: "http://localhost:8080/ABC123"}, nil)

		suite.authorized(suite.e.PUT("/api/v1/short/url/5")).
			WithJSON(map[string]string{"original_url": "https://new.com"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("original_url", "https://new.com")
	})
}

func (suite *HandlersTestSuite) TestDeleteLink() {
	suite.Run("anonymous", func() {
		suite.e.DELETE("/api/v1/short/url/5").
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("already deleted", func() {
		suite.linkSvcMock.
			On("SoftDelete", mock.Anything, caller, int64(5)).
			Once().
			Return(nil, service.ErrValidation)

		suite.authorized(suite.e.DELETE("/api/v1/short/url/5")).
			Expect().
			Status(http.StatusBadRequest)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("SoftDelete", mock.Anything, caller, int64(5)).
			Once().
			Return(&models.DeletionReceipt{OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/ABC123"}, nil)

		suite.authorized(suite.e.DELETE("/api/v1/short/url/5")).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("original_url", "https://example.com").
			HasValue("short_url", "http://localhost:8080/ABC123")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	suite.Run("not found", func() {
		suite.linkSvcMock.
			On("Resolve", mock.Anything, "NOPE00").
			Once().
			Return("", service.ErrNotFound)

		suite.e.GET("/NOPE00").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("message", response.ResourceNotFoundResponse.Message)
	})

	suite.Run("store unavailable", func() {
		suite.linkSvcMock.
			On("Resolve", mock.Anything, "ABC123").
			Once().
			Return("", service.ErrStoreUnavailable)

		suite.e.GET("/ABC123").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusServiceUnavailable)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("Resolve", mock.Anything, "ABC123").
			Once().
			Return("https://example.com/target", nil)

		suite.e.GET("/ABC123").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com/target")
	})
}

func (suite *HandlersTestSuite) TestRegister() {
	const path = "/api/v1/auth/register"

	valid := map[string]string{
		"name":             "Jane",
		"email":            "jane@example.com",
		"password":         "s3cret!",
		"password_confirm": "s3cret!",
	}
	input := auth.RegisterInput{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "s3cret!",
		PasswordConfirm: "s3cret!",
	}

	suite.Run("validation error", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"name": "Jane", "email": "not email"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			ContainsKey("errors")
	})

	suite.Run("password mismatch", func() {
		suite.authSvcMock.On("Register", mock.Anything, input).Once().Return(nil, auth.ErrPasswordMismatch)

		suite.e.POST(path).
			WithJSON(valid).
			Expect().
			Status(http.StatusBadRequest)
	})

	suite.Run("email taken", func() {
		suite.authSvcMock.On("Register", mock.Anything, input).Once().Return(nil, auth.ErrEmailTaken)

		suite.e.POST(path).
			WithJSON(valid).
			Expect().
			Status(http.StatusConflict)
	})

	suite.Run("success", func() {
		suite.authSvcMock.
			On("Register", mock.Anything, input).
			Once().
			Return(&models.OwnerSummary{ID: 1, Name: "Jane", Email: "jane@example.com"}, nil)

		suite.e.POST(path).
			WithJSON(valid).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("id", 1).
			NotContainsKey("password")
	})
}

func (suite *HandlersTestSuite) TestLoginLogout() {
	suite.Run("invalid credentials", func() {
		suite.authSvcMock.
			On("Login", mock.Anything, "jane@example.com", "wrong").
			Once().
			Return(nil, auth.ErrInvalidCredentials)

		suite.e.POST("/api/v1/auth/login").
			WithJSON(map[string]string{"email": "jane@example.com", "password": "wrong"}).
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("success sets cookie", func() {
		suite.authSvcMock.
			On("Login", mock.Anything, "jane@example.com", "s3cret!").
			Once().
			Return(&auth.Session{
				User:      &models.OwnerSummary{ID: callerID, Name: "Jane", Email: "jane@example.com"},
				Token:     suite.token,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil)

		resp := suite.e.POST("/api/v1/auth/login").
			WithJSON(map[string]string{"email": "jane@example.com", "password": "s3cret!"}).
			Expect().
			Status(http.StatusOK)

		resp.Cookie(auth.DefaultCookieName).Value().IsEqual(suite.token)
		resp.JSON().Object().Value("data").Object().HasValue("token", suite.token)
	})

	suite.Run("logout clears cookie", func() {
		suite.e.POST("/api/v1/auth/logout").
			Expect().
			Status(http.StatusOK).
			Cookie(auth.DefaultCookieName).Value().IsEmpty()
	})
}

func (suite *HandlersTestSuite) TestProfile() {
	suite.Run("anonymous", func() {
		suite.e.GET("/api/v1/user").
			Expect().
			Status(http.StatusUnauthorized)
	})

	suite.Run("success", func() {
		suite.authSvcMock.
			On("Profile", mock.Anything, callerID).
			Once().
			Return(&models.OwnerSummary{ID: callerID, Name: "Jane", Email: "jane@example.com"}, nil)

		suite.authorized(suite.e.GET("/api/v1/user")).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object().
			HasValue("email", "jane@example.com")
	})
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
