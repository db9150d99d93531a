package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://cdnjs.cloudflare.com https://fonts.cdnfonts.com; " +
	"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com https://fonts.cdnfonts.com; " +
	"font-src 'self' https://cdnjs.cloudflare.com https://fonts.cdnfonts.com data:; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self';"

// SecurityHeaders sets the fixed response header policy and strips headers
// that identify the server stack.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), fullscreen=(self)")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Writer = &scrubWriter{ResponseWriter: c.Writer}
		c.Next()
		scrubHeaders(c.Writer.Header())
	}
}

// scrubWriter removes identifying headers right before they hit the wire.
type scrubWriter struct {
	gin.ResponseWriter
}

func (w *scrubWriter) WriteHeaderNow() {
	scrubHeaders(w.Header())
	w.ResponseWriter.WriteHeaderNow()
}

func (w *scrubWriter) Write(b []byte) (int, error) {
	scrubHeaders(w.Header())
	return w.ResponseWriter.Write(b)
}

func (w *scrubWriter) WriteString(s string) (int, error) {
	scrubHeaders(w.Header())
	return w.ResponseWriter.WriteString(s)
}

func (w *scrubWriter) Flush() {
	scrubHeaders(w.Header())
	w.ResponseWriter.Flush()
}

func scrubHeaders(h http.Header) {
	h.Del("Server")
	for name := range h {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-powered-by") || strings.HasPrefix(lower, "x-aspnet") {
			h.Del(name)
		}
	}
}
