package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := "7b54a4e2-9f1c-4b7a-8f35-1c2d3e4f5a6b"

	token := EncodeToken(createdAt, id)
	require.NotEmpty(t, token)

	gotTime, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_InvalidBase64(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := EncodeToken(time.Now().UTC(), "")
	// Valid token with empty id still decodes.
	_, gotID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Empty(t, gotID)
}

func TestDecodeToken_BadTimestamp(t *testing.T) {
	_, _, err := DecodeToken("bm90LWEtdGltZXxpZA==") // "not-a-time|id"
	assert.Error(t, err)
}
