package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/backend/internal/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func invokeJWT(secret, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	handler := JWTAuthMiddleware(secret)(func(c echo.Context) error { return nil })
	return c, handler(c)
}

func TestJWTAuthMiddleware_SetsUserID(t *testing.T) {
	c, err := invokeJWT(testSecret, "Bearer "+signedToken(t, testSecret, "a1"))
	require.NoError(t, err)
	require.Equal(t, "a1", c.Get("userID"))
}

func TestJWTAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	_, err := invokeJWT(testSecret, "Bearer "+signedToken(t, "other-secret", "a1"))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	_, err := invokeJWT(testSecret, "")
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthMiddleware_EmptySecretFailsClosed(t *testing.T) {
	// Without a configured secret no token may be accepted, not even one
	// signed with an empty key.
	_, err := invokeJWT("", "Bearer "+signedToken(t, "", "a1"))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
