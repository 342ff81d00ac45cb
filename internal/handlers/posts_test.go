package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

type postsHarness struct {
	router *gin.Engine
	store  *fakeStore
	cache  *fakeCache
	events *fakeEvents
}

func newPostsHarness(t *testing.T, posts ...models.ContentPost) *postsHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)

	store := newFakeStore(posts...)
	cache := &fakeCache{store: store}
	events := &fakeEvents{}

	h := NewPostHandlers(store, cache, events, logger, nil)
	router := gin.New()
	router.GET("/content-posts", h.List)
	router.GET("/content-posts/:id", h.Get)
	router.POST("/content-posts/:id/reschedule", h.Reschedule)
	router.DELETE("/content-posts/:id", h.Delete)

	return &postsHarness{router: router, store: store, cache: cache, events: events}
}

func (h *postsHarness) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	h.router.ServeHTTP(w, r)
	return w
}

func TestListRequiresBrandID(t *testing.T) {
	h := newPostsHarness(t)
	if w := h.do(http.MethodGet, "/content-posts", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListReturnsBrandPosts(t *testing.T) {
	h := newPostsHarness(t,
		schedulablePost("post-1", futureDay(5)),
		schedulablePost("post-2", futureDay(6)),
	)

	w := h.do(http.MethodGet, "/content-posts?brand_id=brand-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.PostListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Posts) != 2 {
		t.Fatalf("expected 2 posts, got total=%d len=%d", resp.Total, len(resp.Posts))
	}
}

func TestGetPostNotFound(t *testing.T) {
	h := newPostsHarness(t)
	if w := h.do(http.MethodGet, "/content-posts/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRescheduleAppliesNewDate(t *testing.T) {
	h := newPostsHarness(t, schedulablePost("post-7", futureDay(5)))

	newDate := futureDay(20).Date(time.UTC).Add(14*time.Hour + 30*time.Minute)
	w := h.do(http.MethodPost, "/content-posts/post-7/reschedule",
		models.RescheduleRequest{NewDate: newDate})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var post models.ContentPost
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if post.ScheduledDate == nil || !post.ScheduledDate.Equal(newDate) {
		t.Fatalf("expected scheduled date %v, got %v", newDate, post.ScheduledDate)
	}
	if len(h.cache.invalidations) != 1 || h.cache.invalidations[0] != "brand-1" {
		t.Fatalf("expected one invalidation for brand-1, got %v", h.cache.invalidations)
	}
	if len(h.events.rescheduled) != 1 || h.events.rescheduled[0] != "post-7" {
		t.Fatalf("expected one rescheduled event for post-7, got %v", h.events.rescheduled)
	}
}

func TestReschedulePastDateRejected(t *testing.T) {
	h := newPostsHarness(t, schedulablePost("post-7", futureDay(5)))

	newDate := futureDay(-3).Date(time.UTC)
	w := h.do(http.MethodPost, "/content-posts/post-7/reschedule",
		models.RescheduleRequest{NewDate: newDate})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if h.store.rescheduleCalls != 0 {
		t.Fatal("past-date rejection must happen before the store is called")
	}
	if len(h.cache.invalidations) != 0 {
		t.Fatal("rejected reschedule must not invalidate the cache")
	}
}

func TestRescheduleMissingPost(t *testing.T) {
	h := newPostsHarness(t)
	w := h.do(http.MethodPost, "/content-posts/nope/reschedule",
		models.RescheduleRequest{NewDate: futureDay(20).Date(time.UTC)})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestReschedulePublishedPost(t *testing.T) {
	post := schedulablePost("post-7", futureDay(5))
	post.Status = models.StatusPublished
	h := newPostsHarness(t, post)

	w := h.do(http.MethodPost, "/content-posts/post-7/reschedule",
		models.RescheduleRequest{NewDate: futureDay(20).Date(time.UTC)})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if len(h.cache.invalidations) != 0 {
		t.Fatal("conflict must not invalidate the cache")
	}
}

func TestRescheduleRejectsBadBody(t *testing.T) {
	h := newPostsHarness(t, schedulablePost("post-7", futureDay(5)))
	for _, body := range []string{"{not json", `{}`, `{"new_date": "tomorrow"}`} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/content-posts/post-7/reschedule",
			bytes.NewReader([]byte(body)))
		r.Header.Set("Content-Type", "application/json")
		h.router.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
	if h.store.rescheduleCalls != 0 {
		t.Fatal("bad requests must not reach the store")
	}
}

func TestDeleteRemovesPost(t *testing.T) {
	h := newPostsHarness(t, schedulablePost("post-7", futureDay(5)))

	w := h.do(http.MethodDelete, "/content-posts/post-7", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(h.cache.invalidations) != 1 {
		t.Fatalf("expected one invalidation, got %v", h.cache.invalidations)
	}
	if len(h.events.deleted) != 1 || h.events.deleted[0] != "post-7" {
		t.Fatalf("expected one deleted event for post-7, got %v", h.events.deleted)
	}

	if w := h.do(http.MethodGet, "/content-posts/post-7", nil); w.Code != http.StatusNotFound {
		t.Fatalf("deleted post still readable: %d", w.Code)
	}
}

func TestDeleteMissingPost(t *testing.T) {
	h := newPostsHarness(t)
	if w := h.do(http.MethodDelete, "/content-posts/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMonthLayoutEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ch := NewCalendarHandlers()
	router.GET("/calendar/:year/:month", ch.MonthLayout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar/2025/2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.MonthLayoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Year != 2025 || resp.Month != 2 {
		t.Fatalf("unexpected year/month: %d/%d", resp.Year, resp.Month)
	}
	// March 2025 starts on a Saturday: six blanks then 31 numbered days.
	if len(resp.Slots) != 37 {
		t.Fatalf("expected 37 slots, got %d", len(resp.Slots))
	}

	for _, path := range []string{"/calendar/abc/2", "/calendar/2025/12", "/calendar/2025/-1"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestOperatorNotifierCounts(t *testing.T) {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)

	n := NewOperatorNotifier(logger, nil)
	n.Warn("cannot schedule content in the past")
	n.Error(fmt.Sprintf("reschedule failed: %v", io.ErrUnexpectedEOF))
}
