package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/model"
	"linkbio/internal/service/visit"
)

const VisitorCookie = "visitor_id"

// VisitorKey holds the active visitor token in the gin context.
const VisitorKey = "visitor_token"

type PageVisitor interface {
	HandlePageVisit(ctx context.Context, req visit.PageRequest) (model.Visit, error)
}

var untrackedPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/robots.txt":  {},
	"/sitemap.xml": {},
	"/ping":        {},
	"/health":      {},
	"/metrics":     {},
}

func tracked(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet || c.FullPath() == "" {
		return false
	}
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/static/") || path == "/static" {
		return false
	}
	_, skip := untrackedPaths[path]
	return !skip
}

// VisitorTracking classifies page requests and issues the visitor cookie when
// a fresh token was minted.
func VisitorTracking(cfg *config.Config, visits PageVisitor, logger *zap.Logger) gin.HandlerFunc {
	maxAge := int(cfg.SessionTTL.Seconds())
	return func(c *gin.Context) {
		if !tracked(c) {
			c.Next()
			return
		}

		token, _ := c.Cookie(VisitorCookie)
		v, err := visits.HandlePageVisit(c.Request.Context(), visit.PageRequest{
			Token:     token,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Path:      c.Request.URL.Path,
		})
		if err != nil {
			logger.Warn("visit tracking failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}

		c.Set(VisitorKey, v.Token)
		if v.Issued {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, v.Token, maxAge, "/", "", cfg.CookieSecure, true)
		}
		c.Next()
	}
}
