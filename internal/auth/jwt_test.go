package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", time.Hour)
	claim := SessionClaim{UserName: "Ann", ID: "u-1", Email: "ann@x.com"}

	tok, err := issuer.Issue(claim)
	require.NoError(t, err)

	got, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, claim, *got)
}

func TestTokenIssuer_ClaimShape(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", time.Hour)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	issuer.now = fixedClock(now)

	tok, err := issuer.Issue(SessionClaim{UserName: "Ann", ID: "u-1", Email: "ann@x.com"})
	require.NoError(t, err)

	mc := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, mc)
	require.NoError(t, err)

	assert.Equal(t, "Ann", mc["user_name"])
	assert.Equal(t, "u-1", mc["id"])
	assert.Equal(t, "ann@x.com", mc["email"])
	assert.Equal(t, "u-1", mc["sub"])
	assert.EqualValues(t, now.Unix(), mc["iat"])
	assert.EqualValues(t, now.Add(time.Hour).Unix(), mc["exp"])
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", time.Minute)
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	issuer.now = fixedClock(start)

	tok, err := issuer.Issue(SessionClaim{UserName: "Ann", ID: "u-1", Email: "ann@x.com"})
	require.NoError(t, err)

	issuer.now = fixedClock(start.Add(30 * time.Second))
	_, err = issuer.Verify(tok)
	require.NoError(t, err)

	issuer.now = fixedClock(start.Add(time.Minute + time.Second))
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("right-secret", time.Hour).Issue(SessionClaim{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	_, err := NewTokenIssuer("k", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		AccountID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RequiresExpiry(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{AccountID: "u-1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RequiresAccountID(t *testing.T) {
	tok, err := NewTokenIssuer("k", time.Hour).Issue(SessionClaim{UserName: "Ann"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
