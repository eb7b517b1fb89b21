package models

import "time"

// Warning escalation levels. Level 3 is terminal: the user is flagged for
// admin removal and no further automated warnings are issued.
const (
	WarningLevelFirst  = 1
	WarningLevelSecond = 2
	WarningLevelThird  = 3
)

// Reasons a warning can be issued for.
const (
	ReasonInactivity    = "inactivity"
	ReasonNonCompliance = "non_compliance"
)

// Warning represents an escalation event stored in the 'warnings' table.
// Rows are kept forever for audit; 'active' flips to false only through an
// explicit admin clear.
type Warning struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Level       int       `db:"level" json:"level"`
	Reason      string    `db:"reason" json:"reason"`
	WindowStart time.Time `db:"window_start" json:"window_start"`
	WindowEnd   time.Time `db:"window_end" json:"window_end"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
	Active      bool      `db:"active" json:"active"`
}

// PostingRule is the global posting quota, a singleton row in the
// 'posting_rules' table. Edited rarely through the admin API, read on
// every evaluation.
type PostingRule struct {
	ID             int64  `db:"id" json:"id"`
	StoriesPerWeek int    `db:"stories_per_week" json:"stories_per_week"`
	PostsPerWeek   int    `db:"posts_per_week" json:"posts_per_week"`
	ReelsPerWeek   int    `db:"reels_per_week" json:"reels_per_week"`
	RulesText      string `db:"rules_text" json:"rules_text"`
}

// DefaultPostingRule is the hardcoded fallback used when no rule row exists.
func DefaultPostingRule() *PostingRule {
	return &PostingRule{StoriesPerWeek: 3, PostsPerWeek: 1, ReelsPerWeek: 1}
}

// WarningConfig holds the escalation windows and notification templates,
// a singleton row in the 'warning_configs' table.
type WarningConfig struct {
	ID                     int64  `db:"id" json:"id"`
	InactivityWindowDays   int    `db:"inactivity_window_days" json:"inactivity_window_days"`
	SecondGraceDays        int    `db:"second_grace_days" json:"second_grace_days"`
	ThirdGraceDays         int    `db:"third_grace_days" json:"third_grace_days"`
	NoncomplianceGraceDays int    `db:"noncompliance_grace_days" json:"noncompliance_grace_days"`
	TemplateLevel1         string `db:"template_level_1" json:"template_level_1"`
	TemplateLevel2         string `db:"template_level_2" json:"template_level_2"`
	TemplateLevel3         string `db:"template_level_3" json:"template_level_3"`
}

// DefaultWarningConfig is the hardcoded fallback used when no config row
// exists. Missing configuration is never fatal.
func DefaultWarningConfig() *WarningConfig {
	return &WarningConfig{
		InactivityWindowDays:   30,
		SecondGraceDays:        7,
		ThirdGraceDays:         7,
		NoncomplianceGraceDays: 14,
		TemplateLevel1:         "warning_level_1",
		TemplateLevel2:         "warning_level_2",
		TemplateLevel3:         "warning_level_3",
	}
}

// TemplateForLevel returns the notification template key for a warning level.
func (c *WarningConfig) TemplateForLevel(level int) string {
	switch level {
	case WarningLevelFirst:
		return c.TemplateLevel1
	case WarningLevelSecond:
		return c.TemplateLevel2
	default:
		return c.TemplateLevel3
	}
}
