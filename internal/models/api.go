package models

import "time"

// RescheduleRequest is the body of POST /content-posts/:id/reschedule.
type RescheduleRequest struct {
	NewDate time.Time `json:"new_date" binding:"required"`
}

// PostListResponse wraps a brand's post collection.
type PostListResponse struct {
	Posts []ContentPost `json:"posts"`
	Total int           `json:"total"`
}

// DropRequest carries one completed drag gesture from the calendar surface.
// Target is nil when the item was released outside any day cell.
type DropRequest struct {
	BrandID   string  `json:"brand_id" binding:"required"`
	PayloadID string  `json:"payload_id" binding:"required"`
	Source    string  `json:"source" binding:"required"`
	Target    *string `json:"target"`
}

// DropResponse reports how a gesture resolved.
type DropResponse struct {
	Outcome string       `json:"outcome"`
	Post    *ContentPost `json:"post,omitempty"`
}

// MonthLayoutResponse is the grid the calendar front end renders: leading
// blanks (day 0) followed by the numbered days of the month.
type MonthLayoutResponse struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	DaysInMonth int   `json:"days_in_month"`
	Slots       []int `json:"slots"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
