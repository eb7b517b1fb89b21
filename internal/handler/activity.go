package handler

import (
	"net/http"
	"time"

	"ambassadors/internal/models"
	"ambassadors/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityHandler interface {
	CreateManualActivity(c *gin.Context)
	GetUserActivities(c *gin.Context)
}

type activityHandler struct {
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

func NewActivityHandler(activityRepo repository.ActivityRepository, userRepo repository.UserRepository, logger *zap.Logger) ActivityHandler {
	return &activityHandler{activityRepo: activityRepo, userRepo: userRepo, logger: logger}
}

type createActivityRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	MediaType string `json:"media_type" binding:"required"`
	Timestamp string `json:"timestamp" binding:"required"` // RFC3339
}

// CreateManualActivity handles POST /api/activities. Manually recorded
// activity gets a synthetic unique permalink so it flows through the same
// dedupe and aggregation paths as webhook-ingested records.
func (h *activityHandler) CreateManualActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	mediaType := models.NormalizeMediaType(req.MediaType)
	if !models.IsKnownMediaType(mediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown media type"})
		return
	}

	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp"})
		return
	}

	user, err := h.userRepo.GetUserByID(req.UserID)
	if err != nil {
		h.logger.Error("Failed to look up user", zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	activity := &models.Activity{
		MediaType:       mediaType,
		Permalink:       "manual_" + mediaType + "_" + uuid.NewString(),
		Timestamp:       timestamp.UTC(),
		UserInstagramID: user.Handle(),
		UserID:          &user.ID,
	}
	if _, err := h.activityRepo.SaveActivity(activity); err != nil {
		h.logger.Error("Failed to save manual activity", zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// GetUserActivities handles GET /api/activities/:userID, newest first.
func (h *activityHandler) GetUserActivities(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		h.logger.Error("Failed to look up user", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activities"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	activities, err := h.activityRepo.GetActivitiesByUser(userID)
	if err != nil {
		h.logger.Error("Failed to get activities", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}
