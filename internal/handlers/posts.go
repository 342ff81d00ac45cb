package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
	"github.com/mcawcutt/socialspark-scheduler/internal/store"
)

// PostHandlers serves the content-post surface of the API: brand collection
// reads through the cache, the reschedule command, and explicit deletion.
type PostHandlers struct {
	store   PostStore
	cache   PostCache
	events  EventPublisher
	logger  logging.Logger
	metrics *SchedulerMetrics

	now func() time.Time
}

// NewPostHandlers wires the post handlers. events may be nil when no bus is
// configured.
func NewPostHandlers(store PostStore, cache PostCache, events EventPublisher, logger logging.Logger, metrics *SchedulerMetrics) *PostHandlers {
	return &PostHandlers{
		store:   store,
		cache:   cache,
		events:  events,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// List handles GET /content-posts?brand_id=. The calendar fetches the whole
// brand collection and filters by month client-side.
func (h *PostHandlers) List(c *gin.Context) {
	brandID := c.Query("brand_id")
	if brandID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "brand_id is required"})
		return
	}

	posts, err := h.cache.Get(c.Request.Context(), brandID)
	if err != nil {
		h.logger.WithError(err).WithField("brand_id", brandID).Error("Failed to load posts")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, models.PostListResponse{Posts: posts, Total: len(posts)})
}

// Get handles GET /content-posts/:id.
func (h *PostHandlers) Get(c *gin.Context) {
	post, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "content post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Reschedule handles POST /content-posts/:id/reschedule. The new date is
// applied as sent; drag semantics (preserving time-of-day) belong to the
// engine composing the request. Past dates are rejected on every scheduling
// path, this one included.
func (h *PostHandlers) Reschedule(c *gin.Context) {
	id := c.Param("id")

	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.IncReschedule("bad_request")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if h.pastDate(req.NewDate) {
		h.metrics.IncReschedule("rejected_past")
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "cannot schedule content in the past"})
		return
	}

	post, err := h.store.Reschedule(c.Request.Context(), id, req.NewDate)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.metrics.IncReschedule("not_found")
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "content post not found"})
		return
	case errors.Is(err, store.ErrPublished):
		h.metrics.IncReschedule("conflict")
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "published posts cannot be rescheduled"})
		return
	case err != nil:
		h.metrics.IncReschedule("failed")
		h.logger.WithError(err).WithField("post_id", id).Error("Reschedule failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "reschedule failed"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), post.BrandID)
	h.publishRescheduled(c, post, req.NewDate)
	h.metrics.IncReschedule("ok")

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /content-posts/:id, the explicit delete action.
func (h *PostHandlers) Delete(c *gin.Context) {
	id := c.Param("id")

	brandID, err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "content post not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("post_id", id).Error("Delete failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "delete failed"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), brandID)
	if h.events != nil {
		if err := h.events.PostDeleted(c.Request.Context(), brandID, id); err != nil {
			h.logger.WithError(err).Warn("Failed to publish post.deleted")
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *PostHandlers) publishRescheduled(c *gin.Context, post *models.ContentPost, newDate time.Time) {
	if h.events == nil {
		return
	}
	if err := h.events.PostRescheduled(c.Request.Context(), post.BrandID, post.ID, newDate); err != nil {
		h.logger.WithError(err).Warn("Failed to publish post.rescheduled")
	}
}

func (h *PostHandlers) pastDate(t time.Time) bool {
	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := t.UTC()
	return time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC).Before(today)
}
