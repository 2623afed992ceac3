package handler

import (
	"errors"
	"net/http"
	"strings"

	"clausevault/middleware"
	"clausevault/pkg/logger"
	"clausevault/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	users service.UserStore
}

func NewSettingsHandler(users service.UserStore) *SettingsHandler {
	return &SettingsHandler{users: users}
}

type UpdateSettingsRequest struct {
	Name    string `json:"name"`
	AIModel string `json:"aiModel"`
}

type SettingsResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	AIModel string `json:"aiModel"`
}

// Get returns the caller's profile and preferred analysis model.
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.users.UserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		logger.Error(c.Request.Context(), "failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Name:    user.Name,
		Email:   user.Email,
		AIModel: user.AIModel,
	})
}

// Update changes the caller's display name and preferred analysis model.
// Email is read-only here.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.UpdateSettings(c.Request.Context(), userID, strings.TrimSpace(req.Name), req.AIModel)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		logger.Error(c.Request.Context(), "failed to save settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Name:    user.Name,
		Email:   user.Email,
		AIModel: user.AIModel,
	})
}
