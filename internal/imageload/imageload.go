// Package imageload fetches and decodes the logo drawn in the middle of a QR
// code.
package imageload

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
)

// DefaultMaxBytes caps how much of a logo is read.
const DefaultMaxBytes = 10 << 20

// svgFallbackSize is the raster size of SVG logos without a usable viewBox.
const svgFallbackSize = 512

// Loader loads images from data URLs, http(s) URLs and files.
type Loader struct {
	Client   *http.Client
	MaxBytes int64
}

// Load fetches src and decodes it.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "no image source")
	case strings.HasPrefix(src, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return l.get(ctx, src)
	default:
		f, err := os.Open(src)
		if err != nil {
			return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "open image")
		}
		defer f.Close()
		return l.read(f)
	}
}

func (l *Loader) get(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "build image request")
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "fetch image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "fetch image: %s", resp.Status)
	}
	return l.read(resp.Body)
}

func (l *Loader) read(r io.Reader) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "read image")
	}
	if int64(len(data)) > limit {
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "image is larger than %d bytes", limit)
	}
	return data, nil
}

// decodeDataURL returns the payload of a data URL, base64 or percent encoded.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "decode data URL")
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "decode data URL")
	}
	return []byte(text), nil
}

// Decode sniffs the content type of data and decodes it. PNG, JPEG, GIF and
// WebP are decoded as they are; SVG is rasterized at its own size.
func Decode(data []byte) (image.Image, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("image/svg+xml"):
		return rasterizeSVG(data)
	case mtype.Is("image/png"), mtype.Is("image/jpeg"), mtype.Is("image/gif"), mtype.Is("image/webp"):
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "decode %s", mtype.String())
		}
		return img, nil
	default:
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "unsupported image type %s", mtype.String())
	}
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "parse svg")
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = svgFallbackSize, svgFallbackSize
	}
	if w > 4096 || h > 4096 {
		return nil, qrerrors.New(qrerrors.ErrCodeImage, "svg is too large: %dx%d", w, h)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// Size returns the pixel size of img.
func Size(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
