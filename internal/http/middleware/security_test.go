package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) {
		c.Header("Server", "leaky/1.0")
		c.Header("X-Powered-By", "php")
		c.Header("X-AspNet-Version", "4.0")
		c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	require.Contains(t, rec.Header().Get("Permissions-Policy"), "fullscreen=(self)")
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	require.Empty(t, rec.Header().Values("Server"))
	require.Empty(t, rec.Header().Values("X-Powered-By"))
	require.Empty(t, rec.Header().Values("X-Aspnet-Version"))
}

func TestSecurityHeadersOnErrorsAndTLS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.TLS = &tls.ConnectionState{}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
}
