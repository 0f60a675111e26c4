// Package raster is the bitmap backend. It fills instruction outlines on a
// draw.Image with rasterx.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
)

// SurfaceFunc creates the image a render draws into.
type SurfaceFunc func(width, height int) draw.Image

// NewSurface returns a transparent RGBA image.
func NewSurface(width, height int) draw.Image {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Renderer paints scenes onto a surface. Like a canvas context it is
// stateful: the fill is set before every path is drawn.
type Renderer struct {
	dst    draw.Image
	filler *rasterx.Filler
}

// NewRenderer returns a renderer drawing into dst.
func NewRenderer(dst draw.Image) *Renderer {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	return &Renderer{dst: dst, filler: rasterx.NewFiller(b.Dx(), b.Dy(), scanner)}
}

// Surface returns the target image.
func (r *Renderer) Surface() draw.Image { return r.dst }

// Render paints every instruction in order. logo is scaled into the image
// instruction's rectangle; a nil logo leaves it empty.
func (r *Renderer) Render(scene *layout.Scene, logo image.Image) error {
	if r.dst == nil {
		return qrerrors.New(qrerrors.ErrCodeRender, "no surface to draw into")
	}
	for _, in := range scene.Instructions {
		if in.Region == layout.RegionImage {
			if logo != nil {
				r.DrawImage(logo, in.X, in.Y, in.W, in.H)
			}
			continue
		}
		r.FillPath(in.Path, in.Fill)
	}
	return nil
}

// FillPath fills p with the non-zero winding rule. rasterx's scanner has no
// even-odd mode, so holes must be wound against their outline.
func (r *Renderer) FillPath(p geometry.Path, fill gradient.Fill) {
	if fill.Transparent() || len(p) == 0 {
		return
	}
	f := r.filler
	f.Clear()
	f.SetWinding(true)
	if g := fill.Gradient; g != nil {
		f.SetColor(rasterx.ColorFunc(func(x, y int) color.Color {
			return g.At(float64(x)+0.5, float64(y)+0.5)
		}))
	} else {
		f.SetColor(fill.Color)
	}
	addPath(f, p)
	f.Draw()
	f.Clear()
}

func addPath(f *rasterx.Filler, p geometry.Path) {
	open := false
	for _, s := range p {
		switch s.Op {
		case geometry.MoveTo:
			if open {
				f.Stop(false)
			}
			f.Start(rasterx.ToFixedP(s.Pts[0].X, s.Pts[0].Y))
			open = true
		case geometry.LineTo:
			f.Line(rasterx.ToFixedP(s.Pts[0].X, s.Pts[0].Y))
		case geometry.CubicTo:
			f.CubeBezier(
				rasterx.ToFixedP(s.Pts[0].X, s.Pts[0].Y),
				rasterx.ToFixedP(s.Pts[1].X, s.Pts[1].Y),
				rasterx.ToFixedP(s.Pts[2].X, s.Pts[2].Y),
			)
		case geometry.Close:
			f.Stop(true)
			open = false
		}
	}
	if open {
		f.Stop(false)
	}
}

// DrawImage scales img into the pixel rectangle (x, y, w, h) over what is
// already painted.
func (r *Renderer) DrawImage(img image.Image, x, y, w, h float64) {
	rect := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
	if rect.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(r.dst, rect, img, img.Bounds(), draw.Over, nil)
}

// RasterizeSVG draws SVG markup into a new width×height image.
func RasterizeSVG(markup []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, qrerrors.New(qrerrors.ErrCodeRender, "invalid raster size %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeRender, err, "parse svg")
	}
	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}
