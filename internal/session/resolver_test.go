package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/models"
)

type mockUserReader struct {
	user    *models.User
	err     error
	queried bool
}

func (m *mockUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.queried = true
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func TestResolveAdminSubjectSkipsStore(t *testing.T) {
	users := &mockUserReader{}
	resolver := NewResolver(users)

	identity, err := resolver.Resolve(context.Background(), AdminSubject)
	require.NoError(t, err)
	assert.True(t, identity.Admin)
	assert.Nil(t, identity.User)
	assert.False(t, users.queried, "administrator must not be looked up in the user store")
}

func TestResolveRegularUser(t *testing.T) {
	users := &mockUserReader{user: &models.User{ID: "u123", Username: "alice", Status: models.UserStatusActive}}
	resolver := NewResolver(users)

	identity, err := resolver.Resolve(context.Background(), "u123")
	require.NoError(t, err)
	assert.False(t, identity.Admin)
	require.NotNil(t, identity.User)
	assert.Equal(t, "alice", identity.User.Username)
}

func TestResolveStaleSubject(t *testing.T) {
	users := &mockUserReader{err: sql.ErrNoRows}
	resolver := NewResolver(users)

	_, err := resolver.Resolve(context.Background(), "deleted-user")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestResolveStoreFailure(t *testing.T) {
	users := &mockUserReader{err: errors.New("connection refused")}
	resolver := NewResolver(users)

	_, err := resolver.Resolve(context.Background(), "u123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubjectNotFound)
}
