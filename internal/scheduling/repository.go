package scheduling

import (
	"context"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// PostRepository is the engine's view of the authoritative post store. The
// postgres store satisfies it in-process; the HTTP client satisfies it when
// the engine runs away from the database.
type PostRepository interface {
	GetByBrand(ctx context.Context, brandID string) ([]models.ContentPost, error)
	GetByID(ctx context.Context, id string) (*models.ContentPost, error)
	Reschedule(ctx context.Context, id string, newDate time.Time) (*models.ContentPost, error)
}

// CacheInvalidator drops a brand's cached post collection so the next read
// refetches from the source of truth. Invalidation must be idempotent.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, brandID string)
}

// Notifier surfaces gesture results to the operator. Warnings are
// pre-flight rejections; errors are failed remote mutations.
type Notifier interface {
	Warn(message string)
	Error(message string)
}
