package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

const userColumns = "id, name, email, password_hash, active, created_at"

type userRecord struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r *userRecord) ToUser() *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "database.postgres.UserRepository.Create"

	rec := new(userRecord)
	query := `INSERT INTO users(name, email, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, rec, query,
		user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrEmailExists)
		}

		return nil, fmt.Errorf("%s: failed to create user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByID"

	return r.get(ctx, op, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByEmail"

	return r.get(ctx, op, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
}

func (r *UserRepository) get(ctx context.Context, op, query string, arg any) (*models.User, error) {
	rec := new(userRecord)

	err := r.db.GetContext(ctx, rec, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}
