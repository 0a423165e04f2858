package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	token, err := issuer.Issue("user-1", "moderator")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.Issue("user-1", "user")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, err := NewIssuer(testSecret, time.Hour).Issue("user-1", "user")
	require.NoError(t, err)

	_, err = NewIssuer("another-secret-another-secret-xx", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsNonAccessToken(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	_, err := NewIssuer(testSecret, time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(16)
	require.NoError(t, err)
	assert.Len(t, code, 16)
	assert.Regexp(t, `^[A-Za-z0-9]{16}$`, code)

	other, err := GenerateCode(16)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)

	_, err = GenerateCode(0)
	assert.Error(t, err)
}

func TestCodesEqual(t *testing.T) {
	assert.True(t, CodesEqual("abc", "abc"))
	assert.False(t, CodesEqual("abc", "abd"))
	assert.False(t, CodesEqual("abc", "ab"))
}
