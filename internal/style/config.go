// Package style holds the styling configuration of a QR code: the partial,
// user-facing Config and the validated, fully defaulted Options snapshot the
// layout engine consumes.
package style

// Config is user-supplied styling. Every field is optional; unset fields take
// the defaults from Default. Pointer fields distinguish "unset" from a
// meaningful zero value.
type Config struct {
	Type          string              `json:"type,omitempty" toml:"type"`
	Shape         string              `json:"shape,omitempty" toml:"shape"`
	Width         int                 `json:"width,omitempty" toml:"width"`
	Height        int                 `json:"height,omitempty" toml:"height"`
	Margin        *int                `json:"margin,omitempty" toml:"margin"`
	Data          string              `json:"data,omitempty" toml:"data"`
	Image         string              `json:"image,omitempty" toml:"image"`
	QR            QRConfig            `json:"qrOptions" toml:"qrOptions"`
	ImageOptions  ImageConfig         `json:"imageOptions" toml:"imageOptions"`
	Dots          DotsConfig          `json:"dotsOptions" toml:"dotsOptions"`
	CornersSquare CornersSquareConfig `json:"cornersSquareOptions" toml:"cornersSquareOptions"`
	CornersDot    CornersDotConfig    `json:"cornersDotOptions" toml:"cornersDotOptions"`
	Background    BackgroundConfig    `json:"backgroundOptions" toml:"backgroundOptions"`
	Plugins       []PluginConfig      `json:"plugins,omitempty" toml:"plugins"`
}

// QRConfig configures the external encoder.
type QRConfig struct {
	TypeNumber           int    `json:"typeNumber,omitempty" toml:"typeNumber"`
	Mode                 string `json:"mode,omitempty" toml:"mode"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel,omitempty" toml:"errorCorrectionLevel"`
}

// ImageConfig configures the embedded logo.
type ImageConfig struct {
	HideBackgroundDots *bool   `json:"hideBackgroundDots,omitempty" toml:"hideBackgroundDots"`
	ImageSize          float64 `json:"imageSize,omitempty" toml:"imageSize"`
	CrossOrigin        string  `json:"crossOrigin,omitempty" toml:"crossOrigin"`
	Margin             *int    `json:"margin,omitempty" toml:"margin"`
	SaveAsBlob         *bool   `json:"saveAsBlob,omitempty" toml:"saveAsBlob"`
}

// GradientConfig is a gradient as written by users. Rotation is in radians.
type GradientConfig struct {
	Type       string            `json:"type" toml:"type"`
	Rotation   float64           `json:"rotation,omitempty" toml:"rotation"`
	ColorStops []ColorStopConfig `json:"colorStops" toml:"colorStops"`
}

// ColorStopConfig is one gradient stop.
type ColorStopConfig struct {
	Offset float64 `json:"offset" toml:"offset"`
	Color  string  `json:"color" toml:"color"`
}

type DotsConfig struct {
	Type      string          `json:"type,omitempty" toml:"type"`
	Color     string          `json:"color,omitempty" toml:"color"`
	Gradient  *GradientConfig `json:"gradient,omitempty" toml:"gradient"`
	RoundSize *bool           `json:"roundSize,omitempty" toml:"roundSize"`
}

type CornersSquareConfig struct {
	Type     string          `json:"type,omitempty" toml:"type"`
	Color    string          `json:"color,omitempty" toml:"color"`
	Gradient *GradientConfig `json:"gradient,omitempty" toml:"gradient"`
}

type CornersDotConfig struct {
	Type     string          `json:"type,omitempty" toml:"type"`
	Color    string          `json:"color,omitempty" toml:"color"`
	Gradient *GradientConfig `json:"gradient,omitempty" toml:"gradient"`
}

type BackgroundConfig struct {
	Round    *float64        `json:"round,omitempty" toml:"round"`
	Color    string          `json:"color,omitempty" toml:"color"`
	Gradient *GradientConfig `json:"gradient,omitempty" toml:"gradient"`
}

// PluginConfig names a registered plugin to load for a render along with its
// opaque options.
type PluginConfig struct {
	Name    string         `json:"name" toml:"name"`
	Options map[string]any `json:"options,omitempty" toml:"options"`
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Default returns the complete default configuration.
func Default() Config {
	return Config{
		Type:   string(DrawCanvas),
		Shape:  string(ShapeSquare),
		Width:  300,
		Height: 300,
		Margin: Int(0),
		QR: QRConfig{
			ErrorCorrectionLevel: string(ECLevelQ),
		},
		ImageOptions: ImageConfig{
			HideBackgroundDots: Bool(true),
			ImageSize:          0.4,
			Margin:             Int(0),
			SaveAsBlob:         Bool(true),
		},
		Dots: DotsConfig{
			Type:      "square",
			Color:     "#000",
			RoundSize: Bool(true),
		},
		Background: BackgroundConfig{
			Round: Float(0),
			Color: "#fff",
		},
	}
}

// Merge returns c with every field set in over applied on top. A region whose
// override sets only a color drops the gradient it had before; a plugin list in
// over replaces the previous one.
func (c Config) Merge(over Config) Config {
	out := c
	setString(&out.Type, over.Type)
	setString(&out.Shape, over.Shape)
	setInt(&out.Width, over.Width)
	setInt(&out.Height, over.Height)
	setPtr(&out.Margin, over.Margin)
	setString(&out.Data, over.Data)
	setString(&out.Image, over.Image)

	setInt(&out.QR.TypeNumber, over.QR.TypeNumber)
	setString(&out.QR.Mode, over.QR.Mode)
	setString(&out.QR.ErrorCorrectionLevel, over.QR.ErrorCorrectionLevel)

	setPtr(&out.ImageOptions.HideBackgroundDots, over.ImageOptions.HideBackgroundDots)
	if over.ImageOptions.ImageSize != 0 {
		out.ImageOptions.ImageSize = over.ImageOptions.ImageSize
	}
	setString(&out.ImageOptions.CrossOrigin, over.ImageOptions.CrossOrigin)
	setPtr(&out.ImageOptions.Margin, over.ImageOptions.Margin)
	setPtr(&out.ImageOptions.SaveAsBlob, over.ImageOptions.SaveAsBlob)

	setString(&out.Dots.Type, over.Dots.Type)
	mergePaint(&out.Dots.Color, &out.Dots.Gradient, over.Dots.Color, over.Dots.Gradient)
	setPtr(&out.Dots.RoundSize, over.Dots.RoundSize)

	setString(&out.CornersSquare.Type, over.CornersSquare.Type)
	mergePaint(&out.CornersSquare.Color, &out.CornersSquare.Gradient, over.CornersSquare.Color, over.CornersSquare.Gradient)

	setString(&out.CornersDot.Type, over.CornersDot.Type)
	mergePaint(&out.CornersDot.Color, &out.CornersDot.Gradient, over.CornersDot.Color, over.CornersDot.Gradient)

	setPtr(&out.Background.Round, over.Background.Round)
	mergePaint(&out.Background.Color, &out.Background.Gradient, over.Background.Color, over.Background.Gradient)

	if over.Plugins != nil {
		out.Plugins = append([]PluginConfig(nil), over.Plugins...)
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		cp := *v
		*dst = &cp
	}
}

func mergePaint(color *string, grad **GradientConfig, overColor string, overGrad *GradientConfig) {
	switch {
	case overGrad != nil:
		g := *overGrad
		g.ColorStops = append([]ColorStopConfig(nil), overGrad.ColorStops...)
		*grad = &g
		setString(color, overColor)
	case overColor != "":
		*color = overColor
		*grad = nil
	}
}
