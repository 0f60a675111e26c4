package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyle/internal/handlers"
	"github.com/cristianadrielbraun/qrstyle/web/pages"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "qrstyle"})
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	gin.SetMode(gin.ReleaseMode)
	h := handlers.New(handlers.WithLogger(logger), handlers.WithUploadDir(getEnv("UPLOAD_DIR", handlers.DefaultUploadDir)))
	r := newRouter(h)

	addr := getAddr()
	logger.Info("listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func newRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Static assets
	r.Static("/web/static", "web/static")

	// API routes
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/qr", h.QRCodeJSON)
		api.POST("/htmx/toast", h.GenericToast)
	}
	r.GET("/sitemap.xml", h.SitemapXML)

	// Pages
	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := pages.HomePage().Render(c.Request.Context(), c.Writer); err != nil {
			c.String(500, err.Error())
		}
	})
	return r
}

func getAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
