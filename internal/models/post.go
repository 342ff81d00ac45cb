package models

import "time"

// Platform is a social platform a post targets.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms lists every supported platform.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformTikTok,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// PostStatus is the lifecycle state of a content post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusAutomated PostStatus = "automated"
	StatusPublished PostStatus = "published"
)

// ContentPost is a piece of content placed (or placeable) on the calendar.
// The store owns it; the scheduling engine only ever requests date mutations.
type ContentPost struct {
	ID            string     `json:"id" db:"id"`
	BrandID       string     `json:"brand_id" db:"brand_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Platforms     []Platform `json:"platforms" db:"platforms"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty" db:"scheduled_date"`
	IsEvergreen   bool       `json:"is_evergreen" db:"is_evergreen"`
	Status        PostStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Scheduled reports whether the post currently sits on a calendar day.
func (p *ContentPost) Scheduled() bool {
	return p.ScheduledDate != nil
}
