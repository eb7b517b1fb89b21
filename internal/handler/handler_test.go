package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ambassadors/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseTimeParam(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    *time.Time
		wantErr bool
	}{
		{name: "empty is nil", raw: "", want: nil},
		{
			name: "rfc3339",
			raw:  "2024-06-30T12:00:00Z",
			want: timePtr(time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "date only",
			raw:  "2024-06-30",
			want: timePtr(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)),
		},
		{name: "garbage", raw: "not-a-date", wantErr: true},
		{name: "wrong format", raw: "30/06/2024", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTimeParam(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseTimeParam(%q) succeeded, want error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimeParam(%q): %v", tc.raw, err)
			}
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("parseTimeParam(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			if got != nil && !got.Equal(*tc.want) {
				t.Errorf("parseTimeParam(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantOK     bool
		wantStatus int
	}{
		{name: "no bounds", query: "", wantOK: true},
		{name: "valid range", query: "start=2024-06-01&end=2024-06-08", wantOK: true},
		{name: "bad start", query: "start=nope", wantOK: false, wantStatus: http.StatusBadRequest},
		{name: "bad end", query: "end=nope", wantOK: false, wantStatus: http.StatusBadRequest},
		{name: "reversed bounds", query: "start=2024-06-08&end=2024-06-01", wantOK: false, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

			_, _, ok := parseWindow(c)
			if ok != tc.wantOK {
				t.Fatalf("parseWindow ok = %v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK && w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

type stubRuleRepo struct {
	rule *models.PostingRule
	cfg  *models.WarningConfig
}

func (r *stubRuleRepo) GetGlobalRule() (*models.PostingRule, error) { return r.rule, nil }

func (r *stubRuleRepo) UpdateGlobalRule(rule *models.PostingRule) error {
	r.rule = rule
	return nil
}

func (r *stubRuleRepo) GetWarningConfig() (*models.WarningConfig, error) { return r.cfg, nil }

func (r *stubRuleRepo) UpdateWarningConfig(cfg *models.WarningConfig) error {
	r.cfg = cfg
	return nil
}

func TestUpdatePostingRule(t *testing.T) {
	repo := &stubRuleRepo{rule: models.DefaultPostingRule()}
	h := NewRuleHandler(repo, zap.NewNop())

	router := gin.New()
	router.PUT("/api/rules", h.UpdatePostingRule)

	body := `{"stories_per_week": 5, "posts_per_week": 2, "reels_per_week": 1, "rules_text": "weekly quota"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/rules", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if repo.rule.StoriesPerWeek != 5 || repo.rule.PostsPerWeek != 2 || repo.rule.ReelsPerWeek != 1 {
		t.Errorf("stored rule = %+v", repo.rule)
	}
	if repo.rule.RulesText != "weekly quota" {
		t.Errorf("rules text = %q", repo.rule.RulesText)
	}
}

func TestUpdatePostingRule_RejectsNegative(t *testing.T) {
	repo := &stubRuleRepo{rule: models.DefaultPostingRule()}
	h := NewRuleHandler(repo, zap.NewNop())

	router := gin.New()
	router.PUT("/api/rules", h.UpdatePostingRule)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/rules", strings.NewReader(`{"stories_per_week": -1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if repo.rule.StoriesPerWeek != 3 {
		t.Errorf("rule mutated by rejected request: %+v", repo.rule)
	}
}

func TestUpdateWarningConfig_FillsDefaultTemplates(t *testing.T) {
	repo := &stubRuleRepo{cfg: models.DefaultWarningConfig()}
	h := NewRuleHandler(repo, zap.NewNop())

	router := gin.New()
	router.PUT("/api/warning-config", h.UpdateWarningConfig)

	body := `{"inactivity_window_days": 21, "second_grace_days": 5, "third_grace_days": 5, "noncompliance_grace_days": 10}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/warning-config", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if repo.cfg.InactivityWindowDays != 21 {
		t.Errorf("inactivity window = %d, want 21", repo.cfg.InactivityWindowDays)
	}
	if repo.cfg.TemplateLevel1 != "warning_level_1" || repo.cfg.TemplateLevel3 != "warning_level_3" {
		t.Errorf("templates not defaulted: %+v", repo.cfg)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
