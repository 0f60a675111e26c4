package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin/frame"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
	"github.com/cristianadrielbraun/qrstyle/internal/styling"
)

const (
	previewSize  = 336
	downloadSize = 2000
	// Padding around the modules, in percent of the image side.
	paddingPercent = 7
)

// normalizeHTTPURL validates and normalizes a URL string for QR generation.
// It ensures an http/https scheme, a non-empty hostname, and returns a cleaned absolute URL.
func normalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL parameter is required")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("URL is too long")
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	return u.String(), nil
}

// QRCodeHandler renders a QR code for the url query parameter, styled by the
// remaining query parameters.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	cfg, ext, err := h.queryConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.render(c, cfg, ext)
}

// QRCodeJSON renders a QR code from a JSON style configuration body. The
// output format comes from the format query parameter.
func (h *Handler) QRCodeJSON(c *gin.Context) {
	var cfg style.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid style configuration: " + err.Error()})
		return
	}
	if strings.TrimSpace(cfg.Data) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data is required"})
		return
	}
	ext, err := parseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cfg.Image != "" && !strings.HasPrefix(cfg.Image, "data:") {
		// Only inline logos are accepted from request bodies.
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be a data URL"})
		return
	}
	h.render(c, cfg, ext)
}

func (h *Handler) render(c *gin.Context, cfg style.Config, ext render.Extension) {
	if ext == render.SVG {
		cfg.Type = string(style.DrawSVG)
	}
	ctx := c.Request.Context()
	qr, err := styling.New(ctx, cfg, styling.WithLogger(h.logger), styling.WithImageLoader(h.loader))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() {
		if err := qr.Close(ctx); err != nil {
			h.logger.Warn("closing qr code", "err", err)
		}
	}()
	if err := qr.PluginErrors(); err != nil {
		h.logger.Warn("plugin errors during render", "err", err)
	}

	art, err := qr.RawData(ext)
	if err != nil {
		h.fail(c, err)
		return
	}
	opts := qr.Options()
	h.logger.Debug("qr served", "format", ext, "size", opts.Width, "modules", qr.Matrix().Size(), "bytes", len(art.Data))
	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%d;modules=%d", ext, opts.Width, qr.Matrix().Size()))
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, art.MIME, art.Data)
}

// fail maps a pipeline error to a JSON error response.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch qrerrors.GetCode(err) {
	case qrerrors.ErrCodeConfiguration, qrerrors.ErrCodeEncoding:
		status = http.StatusBadRequest
	case qrerrors.ErrCodeImage:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("qr render failed", "err", err)
	}
	c.JSON(status, gin.H{"error": qrerrors.UserMessage(err), "code": qrerrors.GetCode(err)})
}

func parseFormat(s string) (render.Extension, error) {
	ext, err := render.ParseExtension(s)
	if err != nil || ext == render.WebP {
		return "", fmt.Errorf("format must be png, jpg or svg")
	}
	return ext, nil
}

// queryConfig translates the query parameters of the QR endpoint into a
// style configuration.
func (h *Handler) queryConfig(c *gin.Context) (style.Config, render.Extension, error) {
	var cfg style.Config
	data := c.Query("data")
	if data == "" {
		u, err := normalizeHTTPURL(c.Query("url"))
		if err != nil {
			return cfg, "", err
		}
		data = u
	}
	cfg.Data = data

	// Unknown formats fall back to PNG.
	ext, err := parseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		ext = render.PNG
	}

	size := previewSize
	if c.DefaultQuery("size", "preview") == "download" {
		size = downloadSize
	} else if ps, err := strconv.Atoi(c.Query("previewSize")); err == nil {
		size = min(max(ps, 64), 2048)
	}
	cfg.Width, cfg.Height = size, size
	cfg.Margin = style.Int(size * paddingPercent / 100)
	cfg.Shape = c.DefaultQuery("shape", "square")
	cfg.QR.ErrorCorrectionLevel = strings.ToUpper(c.DefaultQuery("ec", "Q"))

	bg, err := colorParam(c, "bg", "#ffffff")
	if err != nil {
		return cfg, "", err
	}
	cfg.Background.Color = bg

	var dots style.DotsConfig
	dots.Type = dotType(c.DefaultQuery("qrShape", "rectangle"))
	if t := c.Query("dotType"); t != "" {
		dots.Type = t
	}
	if c.DefaultQuery("colorMode", "flat") == "gradient" {
		g, err := gradientParams(c)
		if err != nil {
			return cfg, "", err
		}
		dots.Gradient = g
	} else {
		fg, err := colorParam(c, "fg", "#000000")
		if err != nil {
			return cfg, "", err
		}
		dots.Color = fg
	}
	cfg.Dots = dots
	cfg.CornersSquare.Type = c.Query("cornerSquareType")
	cfg.CornersDot.Type = c.Query("cornerDotType")

	if c.DefaultQuery("centerLogo", "false") == "true" {
		logo := "temp_logo.png"
		if f := c.Query("logoFile"); f != "" {
			logo = filepath.Base(f)
		}
		cfg.Image = filepath.Join(h.uploadDir, logo)
		// Keep the code readable under the logo.
		cfg.QR.ErrorCorrectionLevel = string(style.ECLevelH)
	}

	fr, err := frameParams(c, cfg)
	if err != nil {
		return cfg, "", err
	}
	if fr != nil {
		cfg.Plugins = []style.PluginConfig{*fr}
	}
	return cfg, ext, nil
}

// dotType maps the legacy qrShape parameter to a dot type.
func dotType(qrShape string) string {
	switch qrShape {
	case "circle":
		return "dots"
	case "liquid":
		return "extra-rounded"
	case "chain":
		return "classy-rounded"
	case "hstripe", "vstripe":
		return "rounded"
	default:
		return "square"
	}
}

// colorParam reads a color query parameter. "transparent" is accepted; an
// unparseable value is an error.
func colorParam(c *gin.Context, key, def string) (string, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, nil
	}
	if _, err := style.ParseColor(v); err != nil {
		return "", fmt.Errorf("invalid %s color %q", key, v)
	}
	return v, nil
}

// gradientParams builds the three-stop diagonal gradient of gradient mode.
func gradientParams(c *gin.Context) (*style.GradientConfig, error) {
	g := &style.GradientConfig{Type: "linear", Rotation: math.Pi / 4}
	for i, p := range []struct{ key, def string }{
		{"gradientStart", "#000000"},
		{"gradientMiddle", "#808080"},
		{"gradientEnd", "#ff0000"},
	} {
		col, err := colorParam(c, p.key, p.def)
		if err != nil {
			return nil, err
		}
		g.ColorStops = append(g.ColorStops, style.ColorStopConfig{Offset: float64(i) / 2, Color: col})
	}
	return g, nil
}

// frameParams reads cornerStyle, borderPattern and borderColor. It returns
// nil when no frame is wanted.
func frameParams(c *gin.Context, cfg style.Config) (*style.PluginConfig, error) {
	cornerStyle := c.DefaultQuery("cornerStyle", "none")
	if cornerStyle == "none" {
		return nil, nil
	}
	pattern := c.DefaultQuery("borderPattern", "simple")
	widthPercent := 4
	if cornerStyle == "rounded" {
		pattern = "rounded-" + pattern
		// Rounded bands lose part of their width to the inner carve.
		widthPercent = 6
	}
	opts := map[string]any{
		"pattern": pattern,
		"width":   max(cfg.Width*widthPercent/100, 1),
	}

	border, err := colorParam(c, "borderColor", "")
	if err != nil {
		return nil, err
	}
	switch {
	case border != "":
		opts["color"] = border
	case cfg.Dots.Gradient != nil:
		stops := cfg.Dots.Gradient.ColorStops
		opts["gradientStart"] = stops[0].Color
		opts["gradientMiddle"] = stops[1].Color
		opts["gradientEnd"] = stops[2].Color
	default:
		opts["color"] = cfg.Dots.Color
	}
	return &style.PluginConfig{Name: frame.Name, Options: opts}, nil
}
