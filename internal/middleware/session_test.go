package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/session"
	"github.com/cardwise/cardwise-api/pkg/response"
)

type stubUserReader struct {
	users map[string]*models.User
}

func (s *stubUserReader) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newSessionFixture(t *testing.T) (*session.Store, *session.Policy) {
	t.Helper()
	codec := session.NewCodec("fixture-secret", time.Hour)
	store := session.NewStore(codec, session.NewDenylist(nil, nil), nil, session.StoreConfig{CookieName: "session"})
	return store, session.NewPolicy(session.DefaultRealms()...)
}

func newRouter(store *session.Store, policy *session.Policy, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(store, policy, nil))
	for _, h := range extra {
		router.Use(h)
	}
	ok := func(c *gin.Context) { response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil) }
	router.GET("/admin/users", ok)
	router.GET("/profile/me", ok)
	router.GET("/game/questions", ok)
	return router
}

func loginCookie(t *testing.T, store *session.Store, subjectID string) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, store.Create(c, subjectID))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestSessionRedirectsProtectedPath(t *testing.T) {
	store, policy := newSessionFixture(t)
	router := newRouter(store, policy)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestSessionAllowsPublicPath(t *testing.T) {
	store, policy := newSessionFixture(t)
	router := newRouter(store, policy)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/questions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionAllowsAuthenticatedAndRefreshes(t *testing.T) {
	store, policy := newSessionFixture(t)
	router := newRouter(store, policy)

	cookie := loginCookie(t, store, "u1")
	req := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Sliding expiration reissues the cookie on every allowed request.
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestIdentityStaleSubjectRedirectsToLogin(t *testing.T) {
	store, policy := newSessionFixture(t)
	resolver := session.NewResolver(&stubUserReader{users: map[string]*models.User{}})
	router := newRouter(store, policy, Identity(store, resolver, policy))

	cookie := loginCookie(t, store, "deleted-user")
	req := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestIdentityResolvesAdminWithoutLookup(t *testing.T) {
	store, policy := newSessionFixture(t)
	resolver := session.NewResolver(&stubUserReader{users: map[string]*models.User{}})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(store, policy, nil), Identity(store, resolver, policy), RequireAdmin())
	router.GET("/admin/users", func(c *gin.Context) {
		identity := CurrentIdentity(c)
		require.NotNil(t, identity)
		assert.True(t, identity.Admin)
		c.Status(http.StatusOK)
	})

	cookie := loginCookie(t, store, session.AdminSubject)
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminBlocksRegularUser(t *testing.T) {
	store, policy := newSessionFixture(t)
	resolver := session.NewResolver(&stubUserReader{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "alice", Status: models.UserStatusActive},
	}})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(store, policy, nil), Identity(store, resolver, policy), RequireAdmin())
	router.GET("/admin/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	cookie := loginCookie(t, store, "u1")
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireUserBlocksAdmin(t *testing.T) {
	store, policy := newSessionFixture(t)
	resolver := session.NewResolver(&stubUserReader{users: map[string]*models.User{}})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(store, policy, nil), Identity(store, resolver, policy), RequireUser())
	router.GET("/profile/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	cookie := loginCookie(t, store, session.AdminSubject)
	req := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
