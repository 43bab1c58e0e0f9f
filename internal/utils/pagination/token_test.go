package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	occurredAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(occurredAt, "b1c2")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, occurredAt, cursor.OccurredAt)
	assert.Equal(t, "b1c2", cursor.MovementID)

	// Non-UTC input is normalized
	local := occurredAt.In(time.FixedZone("WEST", 3600))
	cursor, err = DecodeToken(EncodeToken(local, "x"))
	require.NoError(t, err)
	assert.True(t, occurredAt.Equal(cursor.OccurredAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("notadate|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "occurred_at parse")
}

func TestCursorBefore(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cursor{OccurredAt: at, MovementID: "m5"}

	assert.True(t, c.Before(at.Add(-time.Second), "m9"))
	assert.False(t, c.Before(at.Add(time.Second), "m1"))
	assert.True(t, c.Before(at, "m4"))
	assert.False(t, c.Before(at, "m5"))
	assert.False(t, c.Before(at, "m6"))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 50, NormalizeLimit(0, 50, 200))
	assert.Equal(t, 10, NormalizeLimit(10, 50, 200))
	assert.Equal(t, 200, NormalizeLimit(1000, 50, 200))
}
