package models

import (
	"testing"
	"time"
)

func TestNormalizeMediaType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMAGE", MediaTypePost},
		{"image", MediaTypePost},
		{"VIDEO", MediaTypeReel},
		{"CAROUSEL", MediaTypePost},
		{"CAROUSEL_ALBUM", MediaTypePost},
		{"STORY", MediaTypeStory},
		{"story", MediaTypeStory},
		{"Reel", MediaTypeReel},
		{"post", MediaTypePost},
		{"igtv", "igtv"},
	}
	for _, tc := range cases {
		if got := NormalizeMediaType(tc.in); got != tc.want {
			t.Errorf("NormalizeMediaType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsKnownMediaType(t *testing.T) {
	for _, known := range MediaTypes {
		if !IsKnownMediaType(known) {
			t.Errorf("IsKnownMediaType(%q) = false", known)
		}
	}
	for _, unknown := range []string{"igtv", "IMAGE", ""} {
		if IsKnownMediaType(unknown) {
			t.Errorf("IsKnownMediaType(%q) = true", unknown)
		}
	}
}

func TestUserIsPaused(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 5)
	past := now.AddDate(0, 0, -5)

	cases := []struct {
		name  string
		until *time.Time
		want  bool
	}{
		{"no pause set", nil, false},
		{"pause in the future", &future, true},
		{"pause expired", &past, false},
		{"pause expiring exactly now", &now, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{WarningPausedUntil: tc.until}
			if got := u.IsPaused(now); got != tc.want {
				t.Errorf("IsPaused() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWarningConfigTemplateForLevel(t *testing.T) {
	cfg := DefaultWarningConfig()
	cases := []struct {
		level int
		want  string
	}{
		{WarningLevelFirst, "warning_level_1"},
		{WarningLevelSecond, "warning_level_2"},
		{WarningLevelThird, "warning_level_3"},
	}
	for _, tc := range cases {
		if got := cfg.TemplateForLevel(tc.level); got != tc.want {
			t.Errorf("TemplateForLevel(%d) = %q, want %q", tc.level, got, tc.want)
		}
	}
}
