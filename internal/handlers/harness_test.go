package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/models"
	"github.com/mcawcutt/socialspark-scheduler/internal/store"
)

// fakeStore satisfies both the handlers' PostStore and the engine's
// PostRepository so one fixture backs every path.
type fakeStore struct {
	mu              sync.Mutex
	posts           map[string]models.ContentPost
	getCalls        int
	rescheduleCalls int
	deleteCalls     int
	rescheduleErr   error
}

func newFakeStore(posts ...models.ContentPost) *fakeStore {
	s := &fakeStore{posts: make(map[string]models.ContentPost)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetByBrand(_ context.Context, brandID string) ([]models.ContentPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ContentPost
	for _, p := range s.posts {
		if p.BrandID == brandID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*models.ContentPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) Reschedule(_ context.Context, id string, newDate time.Time) (*models.ContentPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rescheduleCalls++
	if s.rescheduleErr != nil {
		return nil, s.rescheduleErr
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Status == models.StatusPublished {
		return nil, store.ErrPublished
	}
	p.ScheduledDate = &newDate
	p.Status = models.StatusScheduled
	s.posts[id] = p
	return &p, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	p, ok := s.posts[id]
	if !ok {
		return "", store.ErrNotFound
	}
	delete(s.posts, id)
	return p.BrandID, nil
}

type fakeCache struct {
	store         *fakeStore
	invalidations []string
}

func (c *fakeCache) Get(ctx context.Context, brandID string) ([]models.ContentPost, error) {
	return c.store.GetByBrand(ctx, brandID)
}

func (c *fakeCache) Invalidate(_ context.Context, brandID string) {
	c.invalidations = append(c.invalidations, brandID)
}

type fakeEvents struct {
	rescheduled []string
	deleted     []string
	distributed []time.Time
}

func (e *fakeEvents) PostRescheduled(_ context.Context, _, postID string, _ time.Time) error {
	e.rescheduled = append(e.rescheduled, postID)
	return nil
}

func (e *fakeEvents) PostDeleted(_ context.Context, _, postID string) error {
	e.deleted = append(e.deleted, postID)
	return nil
}

func (e *fakeEvents) DistributionRequested(_ context.Context, _ string, date time.Time) error {
	e.distributed = append(e.distributed, date)
	return nil
}
