package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreConfig controls how the session cookie is issued.
type StoreConfig struct {
	CookieName   string
	CookieSecure bool
}

type revocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) bool
	RevokeSubject(ctx context.Context, subjectID string, expiresAt time.Time) error
	SubjectRevokedAt(ctx context.Context, subjectID string) time.Time
}

// Store persists the session token in an HTTP-only cookie and checks the
// revocation denylist on every read.
type Store struct {
	codec    *Codec
	denylist revocationList
	logger   *zap.Logger
	config   StoreConfig
}

// NewStore constructs a cookie-backed session store.
func NewStore(codec *Codec, denylist revocationList, logger *zap.Logger, cfg StoreConfig) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if denylist == nil {
		denylist = NewDenylist(nil, logger)
	}
	return &Store{codec: codec, denylist: denylist, logger: logger, config: cfg}
}

// Create issues a fresh session for the subject and sets the cookie.
func (s *Store) Create(c *gin.Context, subjectID string) error {
	token, _, err := s.codec.Encode(subjectID)
	if err != nil {
		return err
	}
	s.setCookie(c, token, int(s.codec.Expiry().Seconds()))
	return nil
}

// Read returns the current session claims, or nil when the cookie is
// missing, invalid, expired, or revoked. All failure modes are identical to
// the caller: there is no session.
func (s *Store) Read(c *gin.Context) *Claims {
	raw, err := c.Cookie(s.config.CookieName)
	if err != nil || raw == "" {
		return nil
	}
	claims := s.codec.Decode(raw)
	if claims == nil {
		return nil
	}
	if s.denylist.IsRevoked(c.Request.Context(), claims.ID) {
		return nil
	}
	if claims.IssuedAt != nil {
		revokedAt := s.denylist.SubjectRevokedAt(c.Request.Context(), claims.SubjectID)
		if !revokedAt.IsZero() && claims.IssuedAt.Time.Before(revokedAt) {
			return nil
		}
	}
	return claims
}

// Destroy revokes the current token, if any, and clears the cookie.
func (s *Store) Destroy(c *gin.Context) {
	if claims := s.Read(c); claims != nil && claims.ExpiresAt != nil {
		if err := s.denylist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			s.logger.Warn("failed to revoke session token", zap.Error(err))
		}
	}
	s.setCookie(c, "", -1)
}

// RevokeSubject invalidates every outstanding session the subject holds,
// on all devices. Tokens issued after the call remain valid.
func (s *Store) RevokeSubject(c *gin.Context, subjectID string) {
	expiresAt := time.Now().Add(s.codec.Expiry())
	if err := s.denylist.RevokeSubject(c.Request.Context(), subjectID, expiresAt); err != nil {
		s.logger.Warn("failed to revoke subject sessions", zap.Error(err))
	}
}

// Refresh re-issues the session with a fresh expiry (sliding expiration).
// Without a valid session this is a strict no-op.
func (s *Store) Refresh(c *gin.Context) {
	claims := s.Read(c)
	if claims == nil {
		return
	}
	if err := s.Create(c, claims.SubjectID); err != nil {
		s.logger.Warn("failed to refresh session", zap.Error(err))
	}
}

func (s *Store) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.CookieName, value, maxAge, "/", "", s.config.CookieSecure, true)
}
