package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
	"github.com/mcawcutt/socialspark-scheduler/internal/dragdrop"
	"github.com/mcawcutt/socialspark-scheduler/internal/evergreen"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
	"github.com/mcawcutt/socialspark-scheduler/internal/scheduling"
	"github.com/mcawcutt/socialspark-scheduler/internal/store"
)

// Drop outcome labels shared with metrics and the API response.
const (
	outcomeCancelled   = "cancelled"
	outcomeNoOp        = "noop"
	outcomeRescheduled = "rescheduled"
	outcomeDistributed = "distribution_requested"
)

// DropHandler resolves completed drag gestures. The calendar front end posts
// the raw gesture (payload id, encoded source and target); the engine decides
// whether anything happens.
type DropHandler struct {
	coordinator *scheduling.Coordinator
	trigger     *evergreen.Trigger
	events      EventPublisher
	logger      logging.Logger
	metrics     *SchedulerMetrics
}

// NewDropHandler wires the drop resolution endpoint.
func NewDropHandler(coordinator *scheduling.Coordinator, trigger *evergreen.Trigger, events EventPublisher, logger logging.Logger, metrics *SchedulerMetrics) *DropHandler {
	return &DropHandler{
		coordinator: coordinator,
		trigger:     trigger,
		events:      events,
		logger:      logger,
		metrics:     metrics,
	}
}

// Resolve handles POST /calendar/drop. Cancelled and no-op gestures resolve
// without touching the store.
func (h *DropHandler) Resolve(c *gin.Context) {
	var req models.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	payload, ok := dragdrop.ClassifyPayload(req.PayloadID)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid drag payload"})
		return
	}

	// A source that does not decode means the gesture never had a valid
	// origin; fail closed like any malformed target.
	source, ok := calendar.DecodeDropTarget(req.Source)
	if !ok {
		h.metrics.IncDrop(outcomeCancelled)
		c.JSON(http.StatusOK, models.DropResponse{Outcome: outcomeCancelled})
		return
	}

	session := dragdrop.NewSession()
	if err := session.StartDrag(payload, source); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	switch outcome := session.Drop(req.Target).(type) {
	case dragdrop.Cancelled:
		h.metrics.IncDrop(outcomeCancelled)
		c.JSON(http.StatusOK, models.DropResponse{Outcome: outcomeCancelled})

	case dragdrop.NoOp:
		h.metrics.IncDrop(outcomeNoOp)
		c.JSON(http.StatusOK, models.DropResponse{Outcome: outcomeNoOp})

	case dragdrop.Reschedule:
		h.resolveReschedule(c, outcome)

	case dragdrop.Distribute:
		h.resolveDistribute(c, req.BrandID, outcome.Day)
	}
}

func (h *DropHandler) resolveReschedule(c *gin.Context, outcome dragdrop.Reschedule) {
	post, err := h.coordinator.Reschedule(c.Request.Context(), outcome.PostID, outcome.Day)
	switch {
	case errors.Is(err, scheduling.ErrPastDate):
		h.metrics.IncReschedule("rejected_past")
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "cannot schedule content in the past"})
		return
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
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "reschedule failed"})
		return
	}

	if h.events != nil && post.ScheduledDate != nil {
		if err := h.events.PostRescheduled(c.Request.Context(), post.BrandID, post.ID, *post.ScheduledDate); err != nil {
			h.logger.WithError(err).Warn("Failed to publish post.rescheduled")
		}
	}

	h.metrics.IncDrop(outcomeRescheduled)
	h.metrics.IncReschedule("ok")
	c.JSON(http.StatusOK, models.DropResponse{Outcome: outcomeRescheduled, Post: post})
}

func (h *DropHandler) resolveDistribute(c *gin.Context, brandID string, day calendar.Day) {
	err := h.trigger.Distribute(c.Request.Context(), brandID, day)
	switch {
	case errors.Is(err, evergreen.ErrPastDate):
		h.metrics.IncDistribution("rejected_past")
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "cannot distribute evergreen content to a past date"})
		return
	case err != nil:
		h.metrics.IncDistribution("failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "evergreen distribution unavailable"})
		return
	}

	h.metrics.IncDrop(outcomeDistributed)
	h.metrics.IncDistribution("ok")
	c.JSON(http.StatusOK, models.DropResponse{Outcome: outcomeDistributed})
}
