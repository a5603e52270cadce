package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "token-test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(&Payload{
		UserID:   "u-alice",
		Username: "alice",
	}, testSecret, time.Hour)
	require.NoError(t, err)

	payload, err := ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "u-alice", payload.UserID)
	assert.Equal(t, "alice", payload.Username)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{UserID: "u-alice"}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{UserID: "u-alice"}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("definitely.not.ajwt", testSecret)
	assert.Error(t, err)
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", TokenFromRequest(r))
}

func TestTokenFromRequestBearerFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", TokenFromRequest(r))
}

func TestTokenFromRequestAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, TokenFromRequest(r))
}
