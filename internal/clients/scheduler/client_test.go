package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/clients"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

func testClient(baseURL string) *Client {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)
	return NewClient(Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Logger:  logger,
		Retry: &clients.RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	})
}

func TestGetByBrandRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if got := r.URL.Query().Get("brand_id"); got != "brand-1" {
			t.Errorf("unexpected brand_id %q", got)
		}
		json.NewEncoder(w).Encode(models.PostListResponse{
			Posts: []models.ContentPost{{ID: "post-7", BrandID: "brand-1"}},
			Total: 1,
		})
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).GetByBrand(context.Background(), "brand-1")
	if err != nil {
		t.Fatalf("GetByBrand: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "post-7" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts (one retry), got %d", got)
	}
}

func TestGetByBrandDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "brand_id is required"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetByBrand(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "brand_id is required" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", got)
	}
}

func TestRescheduleSendsCommandOnce(t *testing.T) {
	newDate := time.Date(2030, time.March, 15, 14, 30, 0, 0, time.UTC)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/content-posts/post-7/reschedule" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req models.RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if !req.NewDate.Equal(newDate) {
			t.Errorf("got new_date %v, want %v", req.NewDate, newDate)
		}
		json.NewEncoder(w).Encode(models.ContentPost{
			ID: "post-7", BrandID: "brand-1", ScheduledDate: &newDate, Status: models.StatusScheduled,
		})
	}))
	defer srv.Close()

	post, err := testClient(srv.URL).Reschedule(context.Background(), "post-7", newDate)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if post.ScheduledDate == nil || !post.ScheduledDate.Equal(newDate) {
		t.Fatalf("unexpected post: %+v", post)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
}

func TestRescheduleFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "reschedule failed"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Reschedule(context.Background(), "post-7", time.Now().AddDate(0, 0, 7))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("mutation must be issued exactly once, got %d attempts", got)
	}
}

func TestReschedulePublishedConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "published posts cannot be rescheduled"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Reschedule(context.Background(), "post-7", time.Now().AddDate(0, 0, 7))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/content-posts/post-7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Delete(context.Background(), "post-7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "content post not found"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetByID(context.Background(), "nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}
