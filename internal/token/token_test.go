package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	jwt, err := New("secret", 1, "filmbuff", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, jwt)

	claims, err := Parse("secret", jwt)
	require.NoError(t, err)

	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "filmbuff", claims.Username)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	jwt, err := New("secret", 1, "filmbuff", time.Hour)
	require.NoError(t, err)

	_, err = Parse("other-secret", jwt)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	jwt, err := New("secret", 1, "filmbuff", -time.Minute)
	require.NoError(t, err)

	_, err = Parse("secret", jwt)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
