package handlers

import (
	"context"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// PostStore is what the handlers need from the post store.
type PostStore interface {
	GetByID(ctx context.Context, id string) (*models.ContentPost, error)
	Reschedule(ctx context.Context, id string, newDate time.Time) (*models.ContentPost, error)
	Delete(ctx context.Context, id string) (brandID string, err error)
}

// PostCache serves brand collection reads and takes invalidations.
type PostCache interface {
	Get(ctx context.Context, brandID string) ([]models.ContentPost, error)
	Invalidate(ctx context.Context, brandID string)
}

// EventPublisher announces completed mutations on the bus.
type EventPublisher interface {
	PostRescheduled(ctx context.Context, brandID, postID string, newDate time.Time) error
	PostDeleted(ctx context.Context, brandID, postID string) error
}
