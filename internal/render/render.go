// Package render holds what both drawing backends share: output extensions,
// the encoded artifact and image encoding.
package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
)

// Extension is an output file type.
type Extension string

const (
	PNG  Extension = "png"
	JPEG Extension = "jpeg"
	WebP Extension = "webp"
	SVG  Extension = "svg"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 92

// ParseExtension accepts an extension name in any case, with "jpg" as an
// alias of "jpeg".
func ParseExtension(s string) (Extension, error) {
	switch ext := Extension(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); ext {
	case "jpg":
		return JPEG, nil
	case PNG, JPEG, WebP, SVG:
		return ext, nil
	default:
		return "", qrerrors.New(qrerrors.ErrCodeRender, "unsupported extension %q", s)
	}
}

// MIME returns the media type of the extension.
func (e Extension) MIME() string {
	switch e {
	case JPEG:
		return "image/jpeg"
	case WebP:
		return "image/webp"
	case SVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Artifact is one encoded output.
type Artifact struct {
	Extension Extension
	MIME      string
	Data      []byte
}

// NewArtifact wraps data encoded as ext.
func NewArtifact(ext Extension, data []byte) Artifact {
	return Artifact{Extension: ext, MIME: ext.MIME(), Data: data}
}

// DataURL returns the artifact as a base64 data URL.
func (a Artifact) DataURL() string {
	return DataURL(a.MIME, a.Data)
}

// DataURL builds a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeImage encodes img as ext. JPEG has no alpha channel, so the image is
// composited over white first. WebP can only be decoded.
func EncodeImage(img image.Image, ext Extension) ([]byte, error) {
	var buf bytes.Buffer
	switch ext {
	case PNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, qrerrors.Wrap(qrerrors.ErrCodeRender, err, "encode png")
		}
	case JPEG:
		b := img.Bounds()
		out := image.NewRGBA(b)
		draw.Draw(out, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(out, b, img, b.Min, draw.Over)
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, qrerrors.Wrap(qrerrors.ErrCodeRender, err, "encode jpeg")
		}
	case WebP:
		return nil, qrerrors.New(qrerrors.ErrCodeRender, "webp encoding is not supported, use png or jpeg")
	default:
		return nil, qrerrors.New(qrerrors.ErrCodeRender, "cannot encode a raster image as %q", ext)
	}
	return buf.Bytes(), nil
}
