package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyle/internal/imageload"
	"github.com/cristianadrielbraun/qrstyle/internal/styling"
)

// DefaultUploadDir is where logos named by the logoFile parameter live.
const DefaultUploadDir = "uploads"

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	logger    *log.Logger
	loader    styling.ImageLoader
	uploadDir string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used by the handlers and the renders they start.
func WithLogger(l *log.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithImageLoader replaces the logo loader.
func WithImageLoader(l styling.ImageLoader) Option {
	return func(h *Handler) { h.loader = l }
}

// WithUploadDir sets the directory logos are read from.
func WithUploadDir(dir string) Option {
	return func(h *Handler) { h.uploadDir = dir }
}

// New returns a new Handler instance.
func New(opts ...Option) *Handler {
	h := &Handler{
		logger:    log.Default(),
		loader:    &imageload.Loader{},
		uploadDir: DefaultUploadDir,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	base := baseURL(c.Request)
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + base + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}

// baseURL guesses the public scheme and host of r.
func baseURL(r *http.Request) string {
	scheme := "https"
	if xf := r.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}
