package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fluffyriot/brandpulse/internal/authhelp"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/brands", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	r.DELETE("/api/brands", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestPublicRouteNeedsNoToken(t *testing.T) {
	r := newTestRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	r := newTestRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/brands", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	r := newTestRouter("secret")

	req := httptest.NewRequest("GET", "/api/brands", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	r := newTestRouter("secret")

	token, err := authhelp.CreateAccessToken("secret", "fred", "admin", "Fred")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/brands", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fred")
}

func TestRequireRoleBlocksViewers(t *testing.T) {
	r := newTestRouter("secret")

	token, err := authhelp.CreateAccessToken("secret", "bob", "viewer", "Bob")
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/brands", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
