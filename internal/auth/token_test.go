package auth

import (
	"testing"
	"time"

	"github.com/captionly/captionly-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "captionly-test", time.Hour)
	user := models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := tm.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "captionly-test", -time.Minute)

	token, err := tm.Issue(models.User{ID: "user-1", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "captionly-test", time.Hour)
	verifier := NewTokenManager("secret-b", "captionly-test", time.Hour)

	token, err := issuer.Issue(models.User{ID: "user-1", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongIssuer(t *testing.T) {
	issuer := NewTokenManager("test-secret", "someone-else", time.Hour)
	verifier := NewTokenManager("test-secret", "captionly-test", time.Hour)

	token, err := issuer.Issue(models.User{ID: "user-1", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "captionly-test", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
