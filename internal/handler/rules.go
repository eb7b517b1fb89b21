package handler

import (
	"net/http"

	"ambassadors/internal/models"
	"ambassadors/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RuleHandler interface {
	GetPostingRule(c *gin.Context)
	UpdatePostingRule(c *gin.Context)
	GetWarningConfig(c *gin.Context)
	UpdateWarningConfig(c *gin.Context)
}

type ruleHandler struct {
	ruleRepo repository.RuleRepository
	logger   *zap.Logger
}

func NewRuleHandler(ruleRepo repository.RuleRepository, logger *zap.Logger) RuleHandler {
	return &ruleHandler{ruleRepo: ruleRepo, logger: logger}
}

// GetPostingRule handles GET /api/rules.
func (h *ruleHandler) GetPostingRule(c *gin.Context) {
	rule, err := h.ruleRepo.GetGlobalRule()
	if err != nil {
		h.logger.Error("Failed to get posting rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posting rule"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

type updateRuleRequest struct {
	StoriesPerWeek int    `json:"stories_per_week" binding:"min=0"`
	PostsPerWeek   int    `json:"posts_per_week" binding:"min=0"`
	ReelsPerWeek   int    `json:"reels_per_week" binding:"min=0"`
	RulesText      string `json:"rules_text"`
}

// UpdatePostingRule handles PUT /api/rules, updating the singleton rule row.
func (h *ruleHandler) UpdatePostingRule(c *gin.Context) {
	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rule := &models.PostingRule{
		StoriesPerWeek: req.StoriesPerWeek,
		PostsPerWeek:   req.PostsPerWeek,
		ReelsPerWeek:   req.ReelsPerWeek,
		RulesText:      req.RulesText,
	}
	if err := h.ruleRepo.UpdateGlobalRule(rule); err != nil {
		h.logger.Error("Failed to update posting rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update posting rule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Posting rule updated successfully"})
}

// GetWarningConfig handles GET /api/warning-config.
func (h *ruleHandler) GetWarningConfig(c *gin.Context) {
	cfg, err := h.ruleRepo.GetWarningConfig()
	if err != nil {
		h.logger.Error("Failed to get warning config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve warning config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type updateWarningConfigRequest struct {
	InactivityWindowDays   int    `json:"inactivity_window_days" binding:"required,min=1"`
	SecondGraceDays        int    `json:"second_grace_days" binding:"required,min=1"`
	ThirdGraceDays         int    `json:"third_grace_days" binding:"required,min=1"`
	NoncomplianceGraceDays int    `json:"noncompliance_grace_days" binding:"required,min=1"`
	TemplateLevel1         string `json:"template_level_1"`
	TemplateLevel2         string `json:"template_level_2"`
	TemplateLevel3         string `json:"template_level_3"`
}

// UpdateWarningConfig handles PUT /api/warning-config.
func (h *ruleHandler) UpdateWarningConfig(c *gin.Context) {
	var req updateWarningConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cfg := &models.WarningConfig{
		InactivityWindowDays:   req.InactivityWindowDays,
		SecondGraceDays:        req.SecondGraceDays,
		ThirdGraceDays:         req.ThirdGraceDays,
		NoncomplianceGraceDays: req.NoncomplianceGraceDays,
		TemplateLevel1:         req.TemplateLevel1,
		TemplateLevel2:         req.TemplateLevel2,
		TemplateLevel3:         req.TemplateLevel3,
	}
	defaults := models.DefaultWarningConfig()
	if cfg.TemplateLevel1 == "" {
		cfg.TemplateLevel1 = defaults.TemplateLevel1
	}
	if cfg.TemplateLevel2 == "" {
		cfg.TemplateLevel2 = defaults.TemplateLevel2
	}
	if cfg.TemplateLevel3 == "" {
		cfg.TemplateLevel3 = defaults.TemplateLevel3
	}

	if err := h.ruleRepo.UpdateWarningConfig(cfg); err != nil {
		h.logger.Error("Failed to update warning config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update warning config"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Warning config updated successfully"})
}
