package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	denylistKeyPrefix       = "session:denylist:"
	revokedSubjectKeyPrefix = "session:revoked_subject:"
)

// Denylist tracks revoked token IDs in Redis until their natural expiry.
// Stateless tokens cannot otherwise be invalidated before they expire, so
// logout and password changes register the token ID here.
type Denylist struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewDenylist constructs a denylist. A nil client disables revocation
// tracking entirely (tokens then expire only by their own lifetime).
func NewDenylist(client *redis.Client, logger *zap.Logger) *Denylist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Denylist{client: client, logger: logger, now: time.Now}
}

// Revoke marks a token ID as invalid until the token's own expiry, after
// which the entry is dropped automatically.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d.client == nil || tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist token %s: %w", tokenID, err)
	}
	return nil
}

// IsRevoked reports whether the token ID was revoked. A Redis failure
// degrades to signature-only validation: the session remains gated by its
// signed expiry, and the failure is logged.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if d.client == nil || tokenID == "" {
		return false
	}
	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		d.logger.Warn("denylist lookup failed", zap.Error(err))
		return false
	}
	return n > 0
}

// RevokeSubject invalidates every token the subject holds by recording the
// revocation time. Tokens issued before that time fail the read check on
// every device, not just the one that triggered the revocation. The entry
// outlives the longest-lived affected token and then expires.
func (d *Denylist) RevokeSubject(ctx context.Context, subjectID string, expiresAt time.Time) error {
	if d.client == nil || subjectID == "" {
		return nil
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	stamp := strconv.FormatInt(d.now().Unix(), 10)
	if err := d.client.Set(ctx, revokedSubjectKeyPrefix+subjectID, stamp, ttl).Err(); err != nil {
		return fmt.Errorf("revoke subject %s: %w", subjectID, err)
	}
	return nil
}

// SubjectRevokedAt returns the subject's last full revocation time, or the
// zero time when none is recorded. Failures degrade the same way IsRevoked
// does.
func (d *Denylist) SubjectRevokedAt(ctx context.Context, subjectID string) time.Time {
	if d.client == nil || subjectID == "" {
		return time.Time{}
	}
	raw, err := d.client.Get(ctx, revokedSubjectKeyPrefix+subjectID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("subject revocation lookup failed", zap.Error(err))
		}
		return time.Time{}
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
