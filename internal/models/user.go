package models

import "time"

// User roles evaluated by the warning engine. Only ambassadors are
// checked against posting quotas; leaders manage teams.
const (
	RoleAmbassador = "ambassador"
	RoleLeader     = "leader"
)

// User represents an ambassador or team leader stored in the 'users' table.
type User struct {
	ID                 int64      `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Username           string     `db:"username" json:"username"`
	Instagram          *string    `db:"instagram" json:"instagram,omitempty"` // External handle, nullable
	Role               string     `db:"role" json:"role"`
	Active             bool       `db:"active" json:"active"`
	TeamID             *int64     `db:"team_id" json:"team_id,omitempty"` // Nullable, SET NULL on team delete
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	PhotoURL           *string    `db:"photo_url" json:"photo_url,omitempty"`
	WarningsCount      int        `db:"warnings_count" json:"warnings_count"`
	WarningEscalated   bool       `db:"warning_escalated" json:"warning_escalated"`
	WarningPausedUntil *time.Time `db:"warning_paused_until" json:"warning_paused_until,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// Handle returns the user's external Instagram handle, or "" when unset.
// Activity records are keyed by this handle, not by the internal id.
func (u *User) Handle() string {
	if u.Instagram == nil {
		return ""
	}
	return *u.Instagram
}

// IsPaused reports whether warning evaluation is suspended for the user
// at the given instant.
func (u *User) IsPaused(now time.Time) bool {
	return u.WarningPausedUntil != nil && now.Before(*u.WarningPausedUntil)
}
