package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// Sentinel errors the handlers map to HTTP statuses.
var (
	ErrNotFound  = errors.New("content post not found")
	ErrPublished = errors.New("published posts cannot be rescheduled")
)

const postColumns = `id, brand_id, title, description, platforms, scheduled_date, is_evergreen, status, created_at, updated_at`

// PostStore reads and mutates content_posts. It satisfies
// scheduling.PostRepository for in-process engine wiring.
type PostStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewPostStore creates a store over an open connection.
func NewPostStore(db *sql.DB, logger logging.Logger) *PostStore {
	return &PostStore{db: db, logger: logger}
}

// GetByBrand returns every post for a brand, soonest scheduled first and
// drafts (no date) last. The calendar filters by month client-side.
func (s *PostStore) GetByBrand(ctx context.Context, brandID string) ([]models.ContentPost, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content_posts
		WHERE brand_id = $1
		ORDER BY scheduled_date ASC NULLS LAST, created_at ASC`, postColumns)

	rows, err := s.db.QueryContext(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("query posts for brand %s: %w", brandID, err)
	}
	defer rows.Close()

	posts := make([]models.ContentPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts for brand %s: %w", brandID, err)
	}

	return posts, nil
}

// GetByID returns a single post or ErrNotFound.
func (s *PostStore) GetByID(ctx context.Context, id string) (*models.ContentPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_posts WHERE id = $1`, postColumns)

	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Reschedule moves a post to newDate and marks it scheduled. Published posts
// are immutable here; the update is last-write-wins, no version token.
func (s *PostStore) Reschedule(ctx context.Context, id string, newDate time.Time) (*models.ContentPost, error) {
	query := fmt.Sprintf(`
		UPDATE content_posts
		SET scheduled_date = $2, status = 'scheduled', updated_at = NOW()
		WHERE id = $1 AND status <> 'published'
		RETURNING %s`, postColumns)

	post, err := scanPost(s.db.QueryRowContext(ctx, query, id, newDate))
	if errors.Is(err, sql.ErrNoRows) {
		// Either missing or published; tell them apart for the API.
		if _, lookupErr := s.GetByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrPublished
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and reports the owning brand for cache invalidation.
func (s *PostStore) Delete(ctx context.Context, id string) (brandID string, err error) {
	err = s.db.QueryRowContext(ctx,
		`DELETE FROM content_posts WHERE id = $1 RETURNING brand_id`, id,
	).Scan(&brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete post %s: %w", id, err)
	}
	return brandID, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.ContentPost, error) {
	var post models.ContentPost
	var platforms pq.StringArray
	var scheduled sql.NullTime

	err := row.Scan(
		&post.ID,
		&post.BrandID,
		&post.Title,
		&post.Description,
		&platforms,
		&scheduled,
		&post.IsEvergreen,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan content post: %w", err)
	}

	post.Platforms = make([]models.Platform, 0, len(platforms))
	for _, p := range platforms {
		post.Platforms = append(post.Platforms, models.Platform(p))
	}
	if scheduled.Valid {
		t := scheduled.Time
		post.ScheduledDate = &t
	}

	return &post, nil
}
