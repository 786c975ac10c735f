// Package auth issues caller identities: account registration, password login with
// signed tokens, and the middleware that resolves the caller of a request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownCaller      = errors.New("caller not found")
)

// UserRepository is the user store used for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Session is the outcome of a successful login.
type Session struct {
	User      *models.OwnerSummary
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	users  UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
	now    func() time.Time
}

func NewService(users UserRepository, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.OwnerSummary, error) {
	const op = "auth.Service.Register"

	if in.Password != in.PasswordConfirm {
		return nil, fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	return user.Summary(), nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong passwords
// both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.Service.Login"

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	if !user.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to compare password: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{
		User:      user.Summary(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Profile returns the public data of the caller.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.OwnerSummary, error) {
	const op = "auth.Service.Profile"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnknownCaller)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	if !user.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownCaller)
	}

	return user.Summary(), nil
}
