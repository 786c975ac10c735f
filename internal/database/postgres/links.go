package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/linkshelf/url-shortener/internal/database"
	"github.com/linkshelf/url-shortener/internal/models"
)

const linkColumns = "id, original_url, short_code, owner_id, clicks, active, created_at, modified_at"

type linkRecord struct {
	ID          int64         `db:"id"`
	OriginalURL string        `db:"original_url"`
	ShortCode   string        `db:"short_code"`
	OwnerID     sql.NullInt64 `db:"owner_id"`
	Clicks      int64         `db:"clicks"`
	Active      bool          `db:"active"`
	CreatedAt   time.Time     `db:"created_at"`
	ModifiedAt  time.Time     `db:"modified_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	link := &models.Link{
		ID:          r.ID,
		OriginalURL: r.OriginalURL,
		ShortCode:   r.ShortCode,
		Clicks:      r.Clicks,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		ModifiedAt:  r.ModifiedAt,
	}

	if r.OwnerID.Valid {
		ownerID := r.OwnerID.Int64
		link.OwnerID = &ownerID
	}

	return link
}

func ownerParam(ownerID *int64) sql.NullInt64 {
	if ownerID == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *ownerID, Valid: true}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(original_url, short_code, owner_id, active, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + linkColumns

	err := r.db.GetContext(ctx, rec, query,
		link.OriginalURL, link.ShortCode, ownerParam(link.OwnerID), link.Active, link.CreatedAt, link.ModifiedAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	const op = "database.postgres.LinkRepository.ShortCodeExists"

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1)`

	if err := r.db.GetContext(ctx, &exists, query, shortCode); err != nil {
		return false, fmt.Errorf("%s: failed to check short code: %w", op, err)
	}

	return exists, nil
}

// IncrementClicks bumps the counter in a single conditional UPDATE, so concurrent
// resolutions of the same code never lose a click.
func (r *LinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.IncrementClicks"

	rec := new(linkRecord)
	query := `UPDATE links
		SET clicks = clicks + 1
		WHERE short_code = $1 AND active
		RETURNING ` + linkColumns

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) Update(ctx context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Update"

	rec := new(linkRecord)
	query := `UPDATE links
		SET original_url = $1, active = $2, modified_at = $3
		WHERE id = $4 AND owner_id = $5 AND active
		RETURNING ` + linkColumns

	err := r.db.GetContext(ctx, rec, query,
		link.OriginalURL, link.Active, link.ModifiedAt, link.ID, ownerParam(link.OwnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	const op = "database.postgres.LinkRepository.ListByOwner"

	var recs []linkRecord
	query := `SELECT ` + linkColumns + `
		FROM links
		WHERE owner_id = $1 AND active
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &recs, query, ownerID); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]models.Link, 0, len(recs))
	for i := range recs {
		links = append(links, *recs[i].ToLink())
	}

	return links, nil
}

func (r *LinkRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByIDAndOwner"

	rec := new(linkRecord)
	query := `SELECT ` + linkColumns + `
		FROM links
		WHERE id = $1 AND owner_id = $2 AND active`

	err := r.db.GetContext(ctx, rec, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}
