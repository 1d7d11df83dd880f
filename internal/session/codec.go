package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload carried by a session token. SubjectID is either a
// user ID or the reserved administrator subject.
type Claims struct {
	SubjectID string `json:"sub_id"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed, time-limited session tokens.
type Codec struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewCodec constructs a codec signing with the shared secret. Tokens expire
// after the configured duration from issuance.
func NewCodec(secret string, expiry time.Duration) *Codec {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Codec{
		secret: []byte(secret),
		expiry: expiry,
		issuer: "cardwise",
		now:    time.Now,
	}
}

// Encode builds and signs a token for the subject, returning the opaque
// token string and its absolute expiry.
func (c *Codec) Encode(subjectID string) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, fmt.Errorf("subject id required")
	}
	issuedAt := c.now().UTC()
	expiresAt := issuedAt.Add(c.expiry)
	claims := &Claims{
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry of a token. Any verification
// failure (bad signature, malformed token, expired, wrong algorithm) yields
// nil: absence of a session, never an error the caller must handle.
func (c *Codec) Decode(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}
	// Strict decoding rejects base64 segments with set padding bits, so
	// two distinct token strings can never verify as the same token.
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithStrictDecoding())
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SubjectID == "" {
		return nil
	}
	return claims
}

// Expiry reports the configured token lifetime.
func (c *Codec) Expiry() time.Duration {
	return c.expiry
}
