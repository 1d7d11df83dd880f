package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/service"
)

type maintenanceRepoStub struct {
	maintenance bool
	err         error
}

func (s *maintenanceRepoStub) Get(_ context.Context) (*models.Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Settings{ID: "s1", IsMaintenanceMode: s.maintenance}, nil
}

func (s *maintenanceRepoStub) Update(_ context.Context, _ *models.Settings) error {
	return nil
}

func maintenanceRouter(repo *maintenanceRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	settings := service.NewSettingsService(repo, nil, nil)
	r := gin.New()
	r.GET("/game/questions", Maintenance(settings, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestMaintenanceBlocksGatedRoutes(t *testing.T) {
	r := maintenanceRouter(&maintenanceRepoStub{maintenance: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/questions", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "MAINTENANCE")
}

func TestMaintenanceOffPassesThrough(t *testing.T) {
	r := maintenanceRouter(&maintenanceRepoStub{maintenance: false})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/questions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceFailsOpenOnSettingsError(t *testing.T) {
	r := maintenanceRouter(&maintenanceRepoStub{err: errors.New("db down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/questions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
