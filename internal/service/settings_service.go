package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, settings *models.Settings) error
}

// SettingsService manages the application settings singleton.
type SettingsService struct {
	repo   settingsRepository
	audit  *AuditService
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsRepository, audit *AuditService, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, audit: audit, logger: logger}
}

// Get returns the settings singleton, creating it on first read.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Public returns the subset of settings exposed without a session.
func (s *SettingsService) Public(ctx context.Context) (*models.PublicSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PublicSettings{
		IsMaintenanceMode:      settings.IsMaintenanceMode,
		AllowUserRegistrations: settings.AllowUserRegistrations,
	}, nil
}

// Update applies the provided changes to the singleton.
func (s *SettingsService) Update(ctx context.Context, subjectID string, req models.UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	before := *settings
	if req.IsMaintenanceMode != nil {
		settings.IsMaintenanceMode = *req.IsMaintenanceMode
	}
	if req.AllowUserRegistrations != nil {
		settings.AllowUserRegistrations = *req.AllowUserRegistrations
	}

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update settings")
	}

	if s.audit != nil {
		s.audit.Record(models.AuditLog{
			SubjectID:  &subjectID,
			Action:     models.AuditActionSettingsUpdate,
			Resource:   "settings",
			ResourceID: &settings.ID,
			OldValues:  models.AuditSnapshot(before),
			NewValues:  models.AuditSnapshot(settings),
		})
	}

	return settings, nil
}
