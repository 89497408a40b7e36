package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, opts Options, authHeader string) (*fasthttp.RequestCtx, bool) {
	t.Helper()
	called := false
	handler := Auth(opts, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/api/v1/tasks")
	if authHeader != "" {
		ctx.Request.Header.Set("Authorization", authHeader)
	}
	handler(ctx)
	return ctx, called
}

func TestAuthAcceptsValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":      "sub-1",
		"username": "johndoe",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	ctx, called := runAuth(t, Options{Secret: testSecret}, "Bearer "+token)

	assert.True(t, called)
	assert.Equal(t, "sub-1", string(ctx.Request.Header.Peek(HeaderUserID)))
	assert.Equal(t, "johndoe", string(ctx.Request.Header.Peek(HeaderUsername)))
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	ctx, called := runAuth(t, Options{Secret: testSecret}, "")

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestAuthRejectsBadSignature(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "sub-1"}, "wrong-secret")

	ctx, called := runAuth(t, Options{Secret: testSecret}, "Bearer "+token)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "sub-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	_, called := runAuth(t, Options{Secret: testSecret}, "Bearer "+token)

	assert.False(t, called)
}

func TestAuthRejectsIssuerMismatch(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "sub-1",
		"iss": "https://other-issuer.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	_, called := runAuth(t, Options{Secret: testSecret, Issuer: "https://issuer.example.com"}, "Bearer "+token)

	assert.False(t, called)
}

func TestAuthUsesConfiguredUsernameClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":              "sub-1",
		"cognito:username": "johndoe",
		"exp":              time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	ctx, called := runAuth(t, Options{Secret: testSecret, UsernameClaim: "cognito:username"}, "Bearer "+token)

	assert.True(t, called)
	assert.Equal(t, "johndoe", string(ctx.Request.Header.Peek(HeaderUsername)))
}

func TestAuthStripsSpoofedIdentityHeaders(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "sub-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	called := false
	handler := Auth(Options{Secret: testSecret}, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/api/v1/tasks")
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	ctx.Request.Header.Set(HeaderUsername, "attacker")
	handler(ctx)

	assert.True(t, called)
	assert.Empty(t, string(ctx.Request.Header.Peek(HeaderUsername)))
	assert.Equal(t, "sub-1", string(ctx.Request.Header.Peek(HeaderUserID)))
}
