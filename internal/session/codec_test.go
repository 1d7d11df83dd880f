package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	token, expiresAt, err := codec.Encode("u123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims := codec.Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, "u123", claims.SubjectID)
	assert.NotEmpty(t, claims.ID)
}

func TestCodecRejectsEmptySubject(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	_, _, err := codec.Encode("")
	require.Error(t, err)
}

func TestCodecExpiredToken(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	issued := time.Now()
	codec.now = func() time.Time { return issued }

	token, _, err := codec.Encode("u123")
	require.NoError(t, err)
	require.NotNil(t, codec.Decode(token))

	codec.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	assert.Nil(t, codec.Decode(token))
}

func TestCodecTamperedToken(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	token, _, err := codec.Encode("u123")
	require.NoError(t, err)

	raw := []byte(token)
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01
		if string(tampered) == token {
			continue
		}
		assert.Nilf(t, codec.Decode(string(tampered)), "byte %d flipped should not decode", i)
	}
}

// Base64url leaves unused padding bits in the final character of a segment.
// A lax decoder maps two distinct strings onto the same signature, so a
// token altered only in those bits would still verify.
func TestCodecTamperedTrailingBits(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	for i := 0; i < 50; i++ {
		token, _, err := codec.Encode("u123")
		require.NoError(t, err)

		raw := []byte(token)
		for _, mask := range []byte{0x01, 0x02} {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[len(raw)-1] ^= mask
			if string(tampered) == token {
				continue
			}
			assert.Nilf(t, codec.Decode(string(tampered)), "trailing bit 0x%02x flip should not decode", mask)
		}
	}
}

func TestCodecWrongSecret(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	other := NewCodec("another-secret", time.Hour)

	token, _, err := codec.Encode("u123")
	require.NoError(t, err)
	assert.Nil(t, other.Decode(token))
}

func TestCodecMalformedInput(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	assert.Nil(t, codec.Decode(""))
	assert.Nil(t, codec.Decode("not-a-token"))
	assert.Nil(t, codec.Decode("a.b.c"))
}
