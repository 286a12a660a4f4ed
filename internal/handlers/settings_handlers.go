package handlers

import (
	"errors"
	"net/http"

	"velas_backend/internal/services"
	"velas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingsHandler holds the settings service.
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ss services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: ss}
}

// GetSettings returns the current settings, creating defaults when absent.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingsService.Get")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings fully replaces the settings singleton.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	settings, err := h.settingsService.Update(req)
	if err != nil {
		utils.LogError(err, "UpdateSettings: Error from settingsService.Update")
		if errors.Is(err, services.ErrSettingsValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid settings values.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update settings.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ResetSettings restores the factory defaults.
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	settings, err := h.settingsService.ResetToDefault()
	if err != nil {
		utils.LogError(err, "ResetSettings: Error from settingsService.ResetToDefault")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to reset settings.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, settings)
}
