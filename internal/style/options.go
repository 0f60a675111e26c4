package style

import (
	"image/color"
	"math"
	"slices"
	"strings"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
)

// DrawType selects the primary drawing surface.
type DrawType string

const (
	DrawCanvas DrawType = "canvas"
	DrawSVG    DrawType = "svg"
)

// ShapeType is the overall silhouette of the code.
type ShapeType string

const (
	ShapeSquare ShapeType = "square"
	ShapeCircle ShapeType = "circle"
)

// ErrorCorrectionLevel is the QR error correction level.
type ErrorCorrectionLevel string

const (
	ECLevelL ErrorCorrectionLevel = "L"
	ECLevelM ErrorCorrectionLevel = "M"
	ECLevelQ ErrorCorrectionLevel = "Q"
	ECLevelH ErrorCorrectionLevel = "H"
)

// Percent returns the share of modules the level can recover, which bounds how
// much of the symbol a logo may cover.
func (l ErrorCorrectionLevel) Percent() float64 {
	switch l {
	case ECLevelL:
		return 0.07
	case ECLevelM:
		return 0.15
	case ECLevelH:
		return 0.30
	default:
		return 0.25
	}
}

// Mode is the QR data encoding mode. The empty mode lets the encoder choose.
type Mode string

const (
	ModeAuto         Mode = ""
	ModeNumeric      Mode = "Numeric"
	ModeAlphanumeric Mode = "Alphanumeric"
	ModeByte         Mode = "Byte"
	ModeKanji        Mode = "Kanji"
)

// MaxTypeNumber is the largest QR version.
const MaxTypeNumber = 40

var (
	cornerSquareTypes = []string{
		string(geometry.CornerSquareDot), string(geometry.CornerSquareSquare), string(geometry.CornerSquareExtraRounded),
		string(geometry.DotDots), string(geometry.DotRounded), string(geometry.DotClassy), string(geometry.DotClassyRounded),
	}
	cornerDotTypes = []string{
		string(geometry.CornerDotDot), string(geometry.CornerDotSquare),
		string(geometry.DotDots), string(geometry.DotRounded), string(geometry.DotClassy),
		string(geometry.DotClassyRounded), string(geometry.DotExtraRounded),
	}
	modes = []Mode{ModeNumeric, ModeAlphanumeric, ModeByte, ModeKanji}
)

// Paint is the resolved fill of one region. When Set is false the region has
// no paint of its own.
type Paint struct {
	Set      bool
	Color    color.NRGBA
	Gradient *gradient.Gradient
}

// Fill places the paint over box. extraRotation turns linear gradients along
// with the shape they fill.
func (p Paint) Fill(box gradient.Box, extraRotation float64) gradient.Fill {
	if !p.Set {
		return gradient.Fill{}
	}
	if p.Gradient != nil {
		g := *p.Gradient
		g.Rotation += extraRotation
		return gradient.Resolve(g, box)
	}
	return gradient.Solid(p.Color)
}

// Or returns p when it is set and fallback otherwise.
func (p Paint) Or(fallback Paint) Paint {
	if p.Set {
		return p
	}
	return fallback
}

type QROptions struct {
	TypeNumber           int
	Mode                 Mode
	ErrorCorrectionLevel ErrorCorrectionLevel
}

type ImageOptions struct {
	HideBackgroundDots bool
	ImageSize          float64
	CrossOrigin        string
	Margin             int
	SaveAsBlob         bool
}

type DotsOptions struct {
	Type      geometry.DotType
	Paint     Paint
	RoundSize bool
}

type CornersSquareOptions struct {
	Type  geometry.CornerSquareType
	Paint Paint
}

type CornersDotOptions struct {
	Type  geometry.CornerDotType
	Paint Paint
}

type BackgroundOptions struct {
	Round float64
	Paint Paint
}

// Options is a validated, fully defaulted styling snapshot. It is never
// modified after Resolve returns it.
type Options struct {
	Type          DrawType
	Shape         ShapeType
	Width         int
	Height        int
	Margin        int
	Data          string
	Image         string
	QR            QROptions
	ImageOptions  ImageOptions
	Dots          DotsOptions
	CornersSquare CornersSquareOptions
	CornersDot    CornersDotOptions
	Background    BackgroundOptions
	Plugins       []PluginConfig
}

// Sanitize normalizes spelling: enum values are trimmed and lower-cased, the
// error correction level is upper-cased, modes take their canonical case and
// gradient stop offsets are clamped to [0, 1].
func Sanitize(c Config) Config {
	c.Type = normalize(c.Type)
	c.Shape = normalize(c.Shape)
	c.Data = strings.TrimSpace(c.Data)
	c.Image = strings.TrimSpace(c.Image)
	c.QR.ErrorCorrectionLevel = strings.ToUpper(strings.TrimSpace(c.QR.ErrorCorrectionLevel))
	c.QR.Mode = strings.TrimSpace(c.QR.Mode)
	for _, m := range modes {
		if strings.EqualFold(c.QR.Mode, string(m)) {
			c.QR.Mode = string(m)
		}
	}
	c.Dots.Type = normalize(c.Dots.Type)
	c.CornersSquare.Type = normalize(c.CornersSquare.Type)
	c.CornersDot.Type = normalize(c.CornersDot.Type)

	c.Dots.Gradient = sanitizeGradient(c.Dots.Gradient)
	c.CornersSquare.Gradient = sanitizeGradient(c.CornersSquare.Gradient)
	c.CornersDot.Gradient = sanitizeGradient(c.CornersDot.Gradient)
	c.Background.Gradient = sanitizeGradient(c.Background.Gradient)

	if c.Plugins != nil {
		c.Plugins = append([]PluginConfig(nil), c.Plugins...)
	}
	return c
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sanitizeGradient(g *GradientConfig) *GradientConfig {
	if g == nil {
		return nil
	}
	out := *g
	out.Type = normalize(out.Type)
	out.ColorStops = make([]ColorStopConfig, len(g.ColorStops))
	for i, s := range g.ColorStops {
		if math.IsNaN(s.Offset) {
			s.Offset = 0
		}
		s.Offset = math.Max(0, math.Min(1, s.Offset))
		out.ColorStops[i] = s
	}
	return &out
}

// Resolve validates c on top of the defaults and returns the immutable
// snapshot. Every failure is a configuration error.
func Resolve(c Config) (Options, error) {
	c = Sanitize(Default().Merge(c))

	o := Options{
		Type:   DrawType(c.Type),
		Shape:  ShapeType(c.Shape),
		Width:  c.Width,
		Height: c.Height,
		Margin: derefInt(c.Margin),
		Data:   c.Data,
		Image:  c.Image,
		QR: QROptions{
			TypeNumber:           c.QR.TypeNumber,
			Mode:                 Mode(c.QR.Mode),
			ErrorCorrectionLevel: ErrorCorrectionLevel(c.QR.ErrorCorrectionLevel),
		},
		ImageOptions: ImageOptions{
			HideBackgroundDots: derefBool(c.ImageOptions.HideBackgroundDots),
			ImageSize:          c.ImageOptions.ImageSize,
			CrossOrigin:        c.ImageOptions.CrossOrigin,
			Margin:             derefInt(c.ImageOptions.Margin),
			SaveAsBlob:         derefBool(c.ImageOptions.SaveAsBlob),
		},
		Dots: DotsOptions{
			Type:      geometry.DotType(c.Dots.Type),
			RoundSize: derefBool(c.Dots.RoundSize),
		},
		CornersSquare: CornersSquareOptions{Type: geometry.CornerSquareType(c.CornersSquare.Type)},
		CornersDot:    CornersDotOptions{Type: geometry.CornerDotType(c.CornersDot.Type)},
		Background:    BackgroundOptions{Round: derefFloat(c.Background.Round)},
		Plugins:       c.Plugins,
	}

	if err := validate(o); err != nil {
		return Options{}, err
	}

	var err error
	if o.Dots.Paint, err = resolvePaint("dotsOptions", c.Dots.Color, c.Dots.Gradient); err != nil {
		return Options{}, err
	}
	if o.CornersSquare.Paint, err = resolvePaint("cornersSquareOptions", c.CornersSquare.Color, c.CornersSquare.Gradient); err != nil {
		return Options{}, err
	}
	if o.CornersDot.Paint, err = resolvePaint("cornersDotOptions", c.CornersDot.Color, c.CornersDot.Gradient); err != nil {
		return Options{}, err
	}
	if o.Background.Paint, err = resolvePaint("backgroundOptions", c.Background.Color, c.Background.Gradient); err != nil {
		return Options{}, err
	}
	return o, nil
}

func validate(o Options) error {
	configErr := func(format string, args ...any) error {
		return qrerrors.New(qrerrors.ErrCodeConfiguration, format, args...)
	}
	switch o.Type {
	case DrawCanvas, DrawSVG:
	default:
		return configErr("invalid type %q: want canvas or svg", o.Type)
	}
	switch o.Shape {
	case ShapeSquare, ShapeCircle:
	default:
		return configErr("invalid shape %q: want square or circle", o.Shape)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return configErr("width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Margin < 0 {
		return configErr("margin must not be negative, got %d", o.Margin)
	}
	if 2*o.Margin >= min(o.Width, o.Height) {
		return configErr("margin %d leaves no room in a %dx%d canvas", o.Margin, o.Width, o.Height)
	}
	if o.QR.TypeNumber < 0 || o.QR.TypeNumber > MaxTypeNumber {
		return configErr("typeNumber must be in 0..%d, got %d", MaxTypeNumber, o.QR.TypeNumber)
	}
	switch o.QR.ErrorCorrectionLevel {
	case ECLevelL, ECLevelM, ECLevelQ, ECLevelH:
	default:
		return configErr("invalid errorCorrectionLevel %q: want L, M, Q or H", o.QR.ErrorCorrectionLevel)
	}
	if o.QR.Mode != ModeAuto && !slices.Contains(modes, o.QR.Mode) {
		return configErr("invalid mode %q", o.QR.Mode)
	}
	if o.ImageOptions.ImageSize <= 0 || o.ImageOptions.ImageSize > 1 {
		return configErr("imageSize must be in (0, 1], got %v", o.ImageOptions.ImageSize)
	}
	if o.ImageOptions.Margin < 0 {
		return configErr("image margin must not be negative, got %d", o.ImageOptions.Margin)
	}
	if !slices.Contains(geometry.DotTypes, o.Dots.Type) {
		return configErr("invalid dotsOptions.type %q", o.Dots.Type)
	}
	if o.CornersSquare.Type != "" && !slices.Contains(cornerSquareTypes, string(o.CornersSquare.Type)) {
		return configErr("invalid cornersSquareOptions.type %q", o.CornersSquare.Type)
	}
	if o.CornersDot.Type != "" && !slices.Contains(cornerDotTypes, string(o.CornersDot.Type)) {
		return configErr("invalid cornersDotOptions.type %q", o.CornersDot.Type)
	}
	if o.Background.Round < 0 || o.Background.Round > 1 {
		return configErr("backgroundOptions.round must be in [0, 1], got %v", o.Background.Round)
	}
	return nil
}

// resolvePaint parses one region's paint. A gradient takes precedence over a
// plain color.
func resolvePaint(region, hex string, g *GradientConfig) (Paint, error) {
	if g != nil {
		parsed, err := resolveGradient(region, g)
		if err != nil {
			return Paint{}, err
		}
		return Paint{Set: true, Gradient: &parsed}, nil
	}
	if hex == "" {
		return Paint{}, nil
	}
	c, err := ParseColor(hex)
	if err != nil {
		return Paint{}, qrerrors.Wrap(qrerrors.ErrCodeConfiguration, err, "invalid %s.color", region)
	}
	return Paint{Set: true, Color: c}, nil
}

func resolveGradient(region string, g *GradientConfig) (gradient.Gradient, error) {
	t := gradient.Type(g.Type)
	if t != gradient.Linear && t != gradient.Radial {
		return gradient.Gradient{}, qrerrors.New(qrerrors.ErrCodeConfiguration,
			"invalid %s.gradient.type %q: want linear or radial", region, g.Type)
	}
	if len(g.ColorStops) == 0 {
		return gradient.Gradient{}, qrerrors.New(qrerrors.ErrCodeConfiguration,
			"%s.gradient needs at least one color stop", region)
	}
	out := gradient.Gradient{Type: t, Rotation: g.Rotation, Stops: make([]gradient.Stop, len(g.ColorStops))}
	for i, s := range g.ColorStops {
		c, err := ParseColor(s.Color)
		if err != nil {
			return gradient.Gradient{}, qrerrors.Wrap(qrerrors.ErrCodeConfiguration, err,
				"invalid %s.gradient.colorStops[%d].color", region, i)
		}
		out.Stops[i] = gradient.Stop{Offset: s.Offset, Color: c}
	}
	return out, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	return p != nil && *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
