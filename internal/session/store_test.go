package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDenylist struct {
	revoked  map[string]bool
	subjects map[string]time.Time
}

func (s *stubDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[tokenID] = true
	return nil
}

func (s *stubDenylist) IsRevoked(ctx context.Context, tokenID string) bool {
	return s.revoked[tokenID]
}

func (s *stubDenylist) RevokeSubject(ctx context.Context, subjectID string, expiresAt time.Time) error {
	if s.subjects == nil {
		s.subjects = make(map[string]time.Time)
	}
	// Second precision, matching what a round trip through the store yields.
	s.subjects[subjectID] = time.Now().Truncate(time.Second)
	return nil
}

func (s *stubDenylist) SubjectRevokedAt(ctx context.Context, subjectID string) time.Time {
	return s.subjects[subjectID]
}

func newTestStore() (*Store, *stubDenylist) {
	denylist := &stubDenylist{}
	codec := NewCodec("secret", time.Hour)
	return NewStore(codec, denylist, nil, StoreConfig{CookieName: "session"}), denylist
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/profile", nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

// carryCookies copies the cookies written by one response onto a fresh
// request context, simulating the browser's next request.
func carryCookies(t *testing.T, w *httptest.ResponseRecorder) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, next := testContext(t)
	for _, cookie := range w.Result().Cookies() {
		c.Request.AddCookie(cookie)
	}
	return c, next
}

func TestStoreCreateAndRead(t *testing.T) {
	store, _ := newTestStore()
	c, w := testContext(t)

	require.NoError(t, store.Create(c, "u123"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	next, _ := carryCookies(t, w)
	claims := store.Read(next)
	require.NotNil(t, claims)
	assert.Equal(t, "u123", claims.SubjectID)
}

func TestStoreReadMissingCookie(t *testing.T) {
	store, _ := newTestStore()
	c, _ := testContext(t)

	assert.Nil(t, store.Read(c))
}

func TestStoreReadGarbageCookie(t *testing.T) {
	store, _ := newTestStore()
	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})

	assert.Nil(t, store.Read(c))
}

func TestStoreDestroyRevokesToken(t *testing.T) {
	store, denylist := newTestStore()
	c, w := testContext(t)
	require.NoError(t, store.Create(c, "u123"))

	next, _ := carryCookies(t, w)
	claims := store.Read(next)
	require.NotNil(t, claims)

	store.Destroy(next)
	assert.True(t, denylist.revoked[claims.ID])

	// The same token is now rejected even though its signature is intact.
	again, _ := carryCookies(t, w)
	assert.Nil(t, store.Read(again))
}

func TestStoreRevokeSubjectInvalidatesAllDevices(t *testing.T) {
	store, _ := newTestStore()

	// Issue both tokens a minute in the past so their issuance clearly
	// precedes the revocation below.
	past := time.Now().Add(-time.Minute)
	store.codec.now = func() time.Time { return past }

	first, firstW := testContext(t)
	require.NoError(t, store.Create(first, "u123"))
	second, secondW := testContext(t)
	require.NoError(t, store.Create(second, "u123"))

	presenting, _ := carryCookies(t, firstW)
	store.RevokeSubject(presenting, "u123")

	// Both tokens are rejected, including the one that never presented
	// itself during the revocation.
	otherDevice, _ := carryCookies(t, secondW)
	assert.Nil(t, store.Read(otherDevice))
	sameDevice, _ := carryCookies(t, firstW)
	assert.Nil(t, store.Read(sameDevice))

	// A session issued after the revocation is accepted again.
	store.codec.now = time.Now
	relogin, reloginW := testContext(t)
	require.NoError(t, store.Create(relogin, "u123"))
	fresh, _ := carryCookies(t, reloginW)
	claims := store.Read(fresh)
	require.NotNil(t, claims)
	assert.Equal(t, "u123", claims.SubjectID)
}

func TestStoreRefreshSlidesExpiry(t *testing.T) {
	store, _ := newTestStore()
	c, w := testContext(t)
	require.NoError(t, store.Create(c, "u123"))

	next, nextW := carryCookies(t, w)
	store.Refresh(next)

	// Refresh writes a new cookie carrying the same subject.
	refreshed, _ := carryCookies(t, nextW)
	claims := store.Read(refreshed)
	require.NotNil(t, claims)
	assert.Equal(t, "u123", claims.SubjectID)
}

func TestStoreRefreshWithoutSessionIsNoop(t *testing.T) {
	store, _ := newTestStore()
	c, w := testContext(t)

	store.Refresh(c)
	assert.Empty(t, w.Result().Cookies())
}
