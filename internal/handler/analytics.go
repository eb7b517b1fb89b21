package handler

import (
	"net/http"
	"strconv"
	"time"

	"ambassadors/internal/aggregation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler interface {
	GetAllCompliance(c *gin.Context)
	GetUserCompliance(c *gin.Context)
	GetTeamCompliance(c *gin.Context)
	GetTrend(c *gin.Context)
}

type analyticsHandler struct {
	aggregator *aggregation.Aggregator
	logger     *zap.Logger
}

func NewAnalyticsHandler(aggregator *aggregation.Aggregator, logger *zap.Logger) AnalyticsHandler {
	return &analyticsHandler{aggregator: aggregator, logger: logger}
}

// GetAllCompliance handles GET /api/analytics/compliance
// Query parameters:
// - start, end: window bounds, RFC3339 or YYYY-MM-DD (optional, defaults
//   to the current week)
func (h *analyticsHandler) GetAllCompliance(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	summaries, err := h.aggregator.AllCompliance(from, to)
	if err != nil {
		h.logger.Error("Failed to compute compliance report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute compliance report"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetUserCompliance handles GET /api/analytics/compliance/:userID
func (h *analyticsHandler) GetUserCompliance(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	summary, err := h.aggregator.UserCompliance(userID, from, to)
	if err != nil {
		h.logger.Error("Failed to compute user compliance", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute user compliance"})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTeamCompliance handles GET /api/analytics/team-compliance?leaderId=N
func (h *analyticsHandler) GetTeamCompliance(c *gin.Context) {
	leaderID, err := strconv.ParseInt(c.Query("leaderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing leaderId"})
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	summaries, err := h.aggregator.TeamCompliance(leaderID, from, to)
	if err != nil {
		h.logger.Error("Failed to compute team compliance", zap.Int64("leader_id", leaderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute team compliance"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetTrend handles GET /api/analytics/trend?months=N (default 6).
func (h *analyticsHandler) GetTrend(c *gin.Context) {
	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid months parameter"})
			return
		}
		months = parsed
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	buckets, err := h.aggregator.MonthlyTrend(from, now)
	if err != nil {
		h.logger.Error("Failed to compute activity trend", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute activity trend"})
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// parseWindow reads optional start/end query parameters. It writes a 400
// response and returns ok=false on a malformed value.
func parseWindow(c *gin.Context) (from, to *time.Time, ok bool) {
	from, err := parseTimeParam(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start parameter"})
		return nil, nil, false
	}
	to, err = parseTimeParam(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end parameter"})
		return nil, nil, false
	}
	if from != nil && to != nil && to.Before(*from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return nil, nil, false
	}
	return from, to, true
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	t = t.UTC()
	return &t, nil
}
