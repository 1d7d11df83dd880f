package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
)

type mockUserRepo struct {
	byID      *models.User
	findErr   error
	exists    bool
	listed    []models.User
	created   *models.User
	updated   *models.User
	deleted   []string
	deleteErr error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username, excludeID string) (bool, error) {
	return m.exists, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return m.listed, len(m.listed), nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "new-user"
	m.created = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCounter struct {
	active int
	err    error
}

func (m *mockCounter) CountByUserAndStatus(ctx context.Context, userID string, status models.QuestionStatus) (int, error) {
	return m.active, m.err
}

func newUserService(repo *mockUserRepo, counter *mockCounter) *UserService {
	if counter == nil {
		counter = &mockCounter{}
	}
	return NewUserService(repo, counter, nil, validator.New(), nil)
}

func TestProfileIncludesActiveCount(t *testing.T) {
	repo := &mockUserRepo{byID: &models.User{ID: "u1", Username: "alice", QuestionsAdded: 10}}
	svc := newUserService(repo, &mockCounter{active: 4})

	profile, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, profile.QuestionsAdded)
	assert.Equal(t, 4, profile.ActiveQuestions)
}

func TestUserGetNotFound(t *testing.T) {
	svc := newUserService(&mockUserRepo{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserCreateRejectsUnknownStatus(t *testing.T) {
	svc := newUserService(&mockUserRepo{}, nil)

	_, err := svc.Create(context.Background(), "admin_user", models.CreateUserRequest{
		Username: "alice", Email: "alice@example.com", Phone: "555-0101", Password: "secret-pass", Status: "banned",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserCreateDefaultsToActive(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, nil)

	user, err := svc.Create(context.Background(), "admin_user", models.CreateUserRequest{
		Username: "alice", Email: "Alice@Example.com", Phone: "555-0101", Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)
}

func TestUserUpdateConflict(t *testing.T) {
	repo := &mockUserRepo{byID: &models.User{ID: "u1"}, exists: true}
	svc := newUserService(repo, nil)

	_, err := svc.Update(context.Background(), "admin_user", "u1", models.UpdateUserRequest{
		Username: "alice", Email: "taken@example.com", Phone: "555-0101", Status: models.UserStatusActive,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserUpdateAuditsOldAndNewValues(t *testing.T) {
	auditRepo := &mockAuditRepo{entries: make(chan models.AuditLog, 1)}
	audit := NewAuditService(auditRepo, nil, AuditConfig{Workers: 1})
	audit.Start(context.Background())
	defer audit.Stop()

	repo := &mockUserRepo{byID: &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Status: models.UserStatusActive}}
	svc := NewUserService(repo, &mockCounter{}, audit, validator.New(), nil)

	_, err := svc.Update(context.Background(), "admin_user", "u1", models.UpdateUserRequest{
		Username: "alice", Email: "alice@example.com", Phone: "555-0101", Status: models.UserStatusInactive,
	})
	require.NoError(t, err)

	select {
	case entry := <-auditRepo.entries:
		assert.Equal(t, models.AuditActionUserUpdate, entry.Action)

		var oldState, newState models.User
		require.NoError(t, json.Unmarshal(entry.OldValues, &oldState))
		require.NoError(t, json.Unmarshal(entry.NewValues, &newState))
		assert.Equal(t, models.UserStatusActive, oldState.Status)
		assert.Equal(t, models.UserStatusInactive, newState.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("user update was not audited")
	}
}

func TestUserDelete(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "admin_user", "u1"))
	assert.Equal(t, []string{"u1"}, repo.deleted)

	repo.deleteErr = sql.ErrNoRows
	err := svc.Delete(context.Background(), "admin_user", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
