package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/response"
)

// SettingsHandler exposes the settings singleton.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Public godoc
// @Summary Public settings
// @Description Flags the unauthenticated app shell needs
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/public [get]
func (h *SettingsHandler) Public(c *gin.Context) {
	settings, err := h.service.Public(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Get godoc
// @Summary Get settings
// @Description Full settings record (administrator only)
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Update settings
// @Description Toggle maintenance mode and registration availability
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body models.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	settings, err := h.service.Update(c.Request.Context(), session.AdminSubject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
