package service

import (
	"context"

	"github.com/linkshelf/url-shortener/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	args := r.Called(ctx, link)
	created, _ := args.Get(0).(*models.Link)
	return created, args.Error(1)
}

func (r *MockLinkRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	args := r.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (r *MockLinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*models.Link, error) {
	args := r.Called(ctx, shortCode)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) Update(ctx context.Context, link *models.Link) (*models.Link, error) {
	args := r.Called(ctx, link)
	updated, _ := args.Get(0).(*models.Link)
	return updated, args.Error(1)
}

func (r *MockLinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	args := r.Called(ctx, ownerID)
	links, _ := args.Get(0).([]models.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Link, error) {
	args := r.Called(ctx, id, ownerID)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := r.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockCodeGenerator struct {
	mock.Mock
}

func (g *MockCodeGenerator) Generate() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}
