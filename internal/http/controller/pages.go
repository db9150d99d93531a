package controller

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkbio/internal/http/dto"
)

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.profile)
}

func (h *Handler) Robots(c *gin.Context) {
	body := "User-agent: *\nDisallow:\nSitemap: " + h.siteURL() + "/sitemap.xml\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *Handler) Sitemap(c *gin.Context) {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/</loc></url>
</urlset>
`, html.EscapeString(h.siteURL()))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(body))
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

func (h *Handler) siteURL() string {
	return strings.TrimRight(h.cfg.SiteURL, "/")
}
