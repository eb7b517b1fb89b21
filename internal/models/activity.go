package models

import (
	"strings"
	"time"
)

// Media types are normalized to this fixed set at the ingestion boundary.
// Historical data arrived with inconsistent casing and Graph-API names
// (IMAGE, VIDEO, CAROUSEL_ALBUM), so business logic only ever sees these.
const (
	MediaTypeStory = "story"
	MediaTypePost  = "post"
	MediaTypeReel  = "reel"
)

// MediaTypes lists all known media types in reporting order.
var MediaTypes = []string{MediaTypeStory, MediaTypePost, MediaTypeReel}

// NormalizeMediaType maps a raw media type value coming from the
// Instagram Graph API (or manual entry) to the canonical enumeration.
func NormalizeMediaType(raw string) string {
	switch strings.ToLower(raw) {
	case "image":
		return MediaTypePost
	case "video":
		return MediaTypeReel
	case "carousel", "carousel_album":
		return MediaTypePost
	default:
		return strings.ToLower(raw)
	}
}

// IsKnownMediaType reports whether t is one of the canonical media types.
func IsKnownMediaType(t string) bool {
	return t == MediaTypeStory || t == MediaTypePost || t == MediaTypeReel
}

// Activity represents a single ambassador activity (story, post or reel)
// stored in the 'activities' table. Records are immutable facts: created
// once by ingestion, never updated or deleted by the engine.
type Activity struct {
	ID              int64     `db:"id" json:"id"`
	MediaType       string    `db:"media_type" json:"media_type"`
	Permalink       string    `db:"permalink" json:"permalink"` // Unique, deduplicates ingestion
	Timestamp       time.Time `db:"timestamp" json:"timestamp"`
	UserInstagramID string    `db:"user_instagram_id" json:"user_instagram_id"` // External handle key
	UserID          *int64    `db:"user_id" json:"user_id,omitempty"`           // Nil when unattributed
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Attributed reports whether the activity was matched to a known user.
func (a *Activity) Attributed() bool {
	return a.UserID != nil
}
