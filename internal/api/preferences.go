package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefinder/backend/internal/middleware"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/types"
)

var (
	validSortFields = map[string]bool{
		"relevance": true, "price": true, "time": true,
		"calories": true, "health": true, "popularity": true,
	}
	validSortOrders = map[string]bool{"asc": true, "desc": true}
)

// PreferencesHandler manages per-user sort preferences. All routes require
// authentication.
type PreferencesHandler struct {
	preferences *service.PreferencesService
	authService middleware.TokenValidator
}

func NewPreferencesHandler(preferences *service.PreferencesService, authService middleware.TokenValidator) *PreferencesHandler {
	return &PreferencesHandler{preferences: preferences, authService: authService}
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	preferences := router.Group("/preferences", middleware.AuthMiddleware(h.authService))
	{
		preferences.GET("", h.GetPreferences)
		preferences.PUT("", h.SavePreferences)
	}
}

// GetPreferences handles GET /preferences.
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, h.preferences.GetUserPreferences(c.Request.Context(), userID))
}

// SavePreferences handles PUT /preferences. Blank fields fall back to the
// defaults; unknown sort fields are rejected.
func (h *PreferencesHandler) SavePreferences(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var prefs types.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	defaults := types.DefaultPreferences()
	if prefs.SortBy == "" {
		prefs.SortBy = defaults.SortBy
	}
	if prefs.SortOrder == "" {
		prefs.SortOrder = defaults.SortOrder
	}
	if prefs.PriorityFactors == (types.PriorityFactors{}) {
		prefs.PriorityFactors = defaults.PriorityFactors
	}

	if !validSortFields[prefs.SortBy] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort field"})
		return
	}
	if !validSortOrders[prefs.SortOrder] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort order"})
		return
	}

	if err := h.preferences.SaveUserPreferences(c.Request.Context(), userID, prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
