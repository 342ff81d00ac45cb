package cache

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// DefaultChannel is the redis channel invalidations travel on.
const DefaultChannel = "socialspark:cache:invalidate"

type invalidation struct {
	BrandID string `json:"brand_id"`
	Origin  string `json:"origin"`
}

// Fanout broadcasts invalidations over redis pubsub so every service
// instance drops the brand entry together. Losing redis only costs sibling
// freshness; the local cache still invalidates.
type Fanout struct {
	client  goredis.UniversalClient
	channel string
	origin  string
	local   *BrandPosts
	logger  logging.Logger
}

// NewFanout wraps a local cache with distributed invalidation.
func NewFanout(client goredis.UniversalClient, channel string, local *BrandPosts, logger logging.Logger) *Fanout {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Fanout{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
		logger:  logger,
	}
}

// Get serves reads from the local cache.
func (f *Fanout) Get(ctx context.Context, brandID string) ([]models.ContentPost, error) {
	return f.local.Get(ctx, brandID)
}

// Invalidate drops the local entry and broadcasts to siblings.
func (f *Fanout) Invalidate(ctx context.Context, brandID string) {
	f.local.Invalidate(ctx, brandID)

	payload, err := json.Marshal(invalidation{BrandID: brandID, Origin: f.origin})
	if err != nil {
		f.logger.WithError(err).Error("Marshal cache invalidation")
		return
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		f.logger.WithError(err).WithField("brand_id", brandID).Warn("Cache invalidation broadcast failed")
	}
}

// Listen applies invalidations published by sibling instances until ctx is
// done. Run it in its own goroutine.
func (f *Fanout) Listen(ctx context.Context) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var inv invalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				f.logger.WithError(err).Warn("Bad cache invalidation payload")
				continue
			}
			if inv.Origin == f.origin {
				continue
			}
			f.local.Invalidate(ctx, inv.BrandID)
		}
	}
}
