package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ambassadors/internal/repository"
	"ambassadors/internal/warning"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WarningHandler interface {
	EvaluateNow(c *gin.Context)
	GetUserWarnings(c *gin.Context)
	ClearWarnings(c *gin.Context)
	PauseWarnings(c *gin.Context)
}

type warningHandler struct {
	engine      *warning.Engine
	warningRepo repository.WarningRepository
	logger      *zap.Logger
}

func NewWarningHandler(engine *warning.Engine, warningRepo repository.WarningRepository, logger *zap.Logger) WarningHandler {
	return &warningHandler{engine: engine, warningRepo: warningRepo, logger: logger}
}

// EvaluateNow handles POST /api/warnings/evaluate-now. It runs a full
// synchronous evaluation pass, the same one the scheduler triggers daily.
func (h *warningHandler) EvaluateNow(c *gin.Context) {
	if err := h.engine.EvaluateAll(c.Request.Context(), time.Now().UTC()); err != nil {
		h.logger.Error("Manual evaluation pass failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Evaluation pass failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evaluation pass completed"})
}

// GetUserWarnings handles GET /api/warnings/:userID, returning the full
// warning history, newest first, including inactive (cleared) rows.
func (h *warningHandler) GetUserWarnings(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	warnings, err := h.warningRepo.GetWarningsByUser(userID)
	if err != nil {
		h.logger.Error("Failed to get warnings", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve warnings"})
		return
	}
	c.JSON(http.StatusOK, warnings)
}

// ClearWarnings handles PATCH /api/warnings/:userID/clear.
func (h *warningHandler) ClearWarnings(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	if err := h.engine.ClearUserWarnings(userID); err != nil {
		if errors.Is(err, warning.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to clear warnings", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear warnings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Warnings cleared"})
}

type pauseRequest struct {
	Until *string `json:"until"` // RFC3339; null lifts the pause
}

// PauseWarnings handles PATCH /api/warnings/:userID/pause.
func (h *warningHandler) PauseWarnings(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var until *time.Time
	if req.Until != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Until)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid until timestamp"})
			return
		}
		parsed = parsed.UTC()
		until = &parsed
	}

	if err := h.engine.PauseUserWarnings(userID, until); err != nil {
		if errors.Is(err, warning.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to pause warnings", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pause warnings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pause updated"})
}

func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return userID, true
}
