package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/service"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/response"
)

// Maintenance blocks the routes it is attached to while maintenance mode is
// on. Admin routes and health endpoints are never behind this middleware. A
// settings read failure lets traffic through rather than taking the API down.
func Maintenance(settings *service.SettingsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		current, err := settings.Get(c.Request.Context())
		if err != nil {
			logger.Warn("maintenance check failed", zap.Error(err))
			c.Next()
			return
		}
		if current.IsMaintenanceMode {
			response.Error(c, appErrors.ErrMaintenance)
			c.Abort()
			return
		}
		c.Next()
	}
}
