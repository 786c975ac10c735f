package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[int64]*models.User
	byEmail map[string]int64
	counter int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, database.ErrEmailExists
	}

	r.counter++
	stored := *user
	stored.ID = r.counter

	r.users[stored.ID] = &stored
	r.byEmail[email] = stored.ID

	created := stored
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, database.ErrUserNotFound
	}

	found := *r.users[id]
	return &found, nil
}
