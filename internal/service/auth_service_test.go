package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail       *models.User
	userByID          *models.User
	findByEmailErr    error
	findByIDErr       error
	exists            bool
	existsErr         error
	created           *models.User
	createErr         error
	updatedHash       string
	updatePasswordErr error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByID, nil
}

func (m *mockAuthRepo) ExistsByEmailOrUsername(ctx context.Context, email, username, excludeID string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	m.created = user
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.updatedHash = passwordHash
	return nil
}

type mockSettingsReader struct {
	settings *models.Settings
	err      error
}

func (m *mockSettingsReader) Get(ctx context.Context) (*models.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(repo *mockAuthRepo, settings *mockSettingsReader, cfg AuthConfig) *AuthService {
	if settings == nil {
		settings = &mockSettingsReader{settings: &models.Settings{AllowUserRegistrations: true}}
	}
	return NewAuthService(repo, settings, nil, validator.New(), nil, cfg)
}

func TestLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "u1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret-pass"),
		Status:       models.UserStatusActive,
	}}
	svc := newAuthService(repo, nil, AuthConfig{AdminPasswordHash: []byte(hashPassword(t, "x"))})

	user, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestLoginUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	adminHash := []byte(hashPassword(t, "x"))

	unknown := newAuthService(&mockAuthRepo{}, nil, AuthConfig{AdminPasswordHash: adminHash})
	_, errUnknown := unknown.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, errUnknown)

	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "u1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret-pass"),
		Status:       models.UserStatusActive,
	}}
	wrongPass := newAuthService(repo, nil, AuthConfig{AdminPasswordHash: adminHash})
	_, errWrong := wrongPass.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "nope-nope"})
	require.Error(t, errWrong)

	assert.Equal(t, appErrors.FromError(errUnknown).Code, appErrors.FromError(errWrong).Code)
	assert.Equal(t, appErrors.FromError(errUnknown).Message, appErrors.FromError(errWrong).Message)
}

func TestLoginRestrictedAccount(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "u1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret-pass"),
		Status:       models.UserStatusInactive,
	}}
	svc := newAuthService(repo, nil, AuthConfig{AdminPasswordHash: []byte(hashPassword(t, "x"))})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "secret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountRestricted.Code, appErrors.FromError(err).Code)
}

func TestAdminLogin(t *testing.T) {
	cfg := AuthConfig{
		AdminEmail:        "admin@cardwise.app",
		AdminPasswordHash: []byte(hashPassword(t, "super-secret")),
	}
	svc := newAuthService(&mockAuthRepo{}, nil, cfg)

	err := svc.AdminLogin(context.Background(), models.LoginRequest{Email: "Admin@Cardwise.app", Password: "super-secret"})
	assert.NoError(t, err)

	err = svc.AdminLogin(context.Background(), models.LoginRequest{Email: "admin@cardwise.app", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	err = svc.AdminLogin(context.Background(), models.LoginRequest{Email: "intruder@cardwise.app", Password: "super-secret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRegisterDisabled(t *testing.T) {
	repo := &mockAuthRepo{}
	settings := &mockSettingsReader{settings: &models.Settings{AllowUserRegistrations: false}}
	svc := newAuthService(repo, settings, AuthConfig{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Phone: "555-0101", Password: "secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRegistrationDisabled.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestRegisterSuccess(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, nil, AuthConfig{})

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "Alice@Example.com", Phone: "555-0101", Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")))
}

func TestRegisterConflict(t *testing.T) {
	repo := &mockAuthRepo{exists: true}
	svc := newAuthService(repo, nil, AuthConfig{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Phone: "555-0101", Password: "secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestChangePassword(t *testing.T) {
	repo := &mockAuthRepo{userByID: &models.User{
		ID:           "u1",
		PasswordHash: hashPassword(t, "old-secret"),
	}}
	svc := newAuthService(repo, nil, AuthConfig{})

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		CurrentPassword: "old-secret", NewPassword: "new-secret-pass",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("new-secret-pass")))
}
