package handler

import (
	"net/http"

	"ambassadors/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler interface {
	GetAllUsers(c *gin.Context)
	GetUserByID(c *gin.Context)
}

type userHandler struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserHandler(userRepo repository.UserRepository, logger *zap.Logger) UserHandler {
	return &userHandler{userRepo: userRepo, logger: logger}
}

// GetAllUsers handles GET /api/users, the ambassador roster with current
// warning state.
func (h *userHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		h.logger.Error("Failed to get users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID handles GET /api/users/:userID.
func (h *userHandler) GetUserByID(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
