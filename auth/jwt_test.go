package auth

import (
	"testing"
	"time"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tokens, err := NewTokens("secret", "ledger", time.Hour)
	require.NoError(t, err)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.True(t, id.Resolved())
}

func TestParseRejects(t *testing.T) {
	tokens, err := NewTokens("secret", "ledger", time.Hour)
	require.NoError(t, err)
	good, err := tokens.Issue(1)
	require.NoError(t, err)

	other, _ := NewTokens("other-secret", "ledger", time.Hour)
	foreign, _ := other.Issue(1)

	wrongIssuer, _ := NewTokens("secret", "someone-else", time.Hour)
	misissued, _ := wrongIssuer.Issue(1)

	expired, _ := NewTokens("secret", "ledger", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue(1)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"wrong issuer": misissued,
		"expired":      stale,
		"alg none":     unsigned,
		"tampered":     good + "x",
	} {
		_, err := tokens.Parse(token)
		assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err), name)
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", "", 0)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = BearerToken("bearer   xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
