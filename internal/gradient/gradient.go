// Package gradient turns gradient definitions into backend fill instructions.
package gradient

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Type is the gradient geometry.
type Type string

const (
	Linear Type = "linear"
	Radial Type = "radial"
)

// Stop is one color stop. Offset is expected in [0, 1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient is a parsed gradient definition. Rotation is in radians and only
// used by linear gradients.
type Gradient struct {
	Type     Type
	Rotation float64
	Stops    []Stop
}

// Box is the area a gradient spans.
type Box struct {
	X, Y, W, H float64
}

// Resolved is a gradient placed in pixel space.
type Resolved struct {
	Type Type
	// Linear axis.
	X1, Y1, X2, Y2 float64
	// Radial center and radius.
	CX, CY, R float64
	// Stops are clamped and sorted by offset.
	Stops []Stop
}

// Fill is either a solid color or a resolved gradient.
type Fill struct {
	Color    color.NRGBA
	Gradient *Resolved
}

// Solid returns a solid fill.
func Solid(c color.NRGBA) Fill {
	return Fill{Color: c}
}

// Transparent reports whether painting the fill would change nothing.
func (f Fill) Transparent() bool {
	return f.Gradient == nil && f.Color.A == 0
}

// Resolve places g over box. Stops are clamped to [0, 1] and sorted, keeping
// insertion order for equal offsets. A gradient with a single stop degrades to
// a solid fill and one without stops to a transparent fill.
func Resolve(g Gradient, box Box) Fill {
	stops := normalizeStops(g.Stops)
	switch len(stops) {
	case 0:
		return Fill{}
	case 1:
		return Solid(stops[0].Color)
	}

	r := &Resolved{Type: g.Type, Stops: stops}
	if g.Type == Radial {
		r.CX = box.X + box.W/2
		r.CY = box.Y + box.H/2
		r.R = math.Max(box.W, box.H) / 2
		return Fill{Gradient: r}
	}

	r.Type = Linear
	r.X1, r.Y1, r.X2, r.Y2 = linearAxis(g.Rotation, box)
	return Fill{Gradient: r}
}

func normalizeStops(in []Stop) []Stop {
	stops := make([]Stop, len(in))
	for i, s := range in {
		s.Offset = math.Max(0, math.Min(1, s.Offset))
		if math.IsNaN(s.Offset) {
			s.Offset = 0
		}
		stops[i] = s
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset })
	return stops
}

// linearAxis maps a rotation to the gradient line across box. The line goes
// through the box center and reaches the edge the angle points at; endpoints
// are rounded to whole pixels.
func linearAxis(rotation float64, box Box) (x1, y1, x2, y2 float64) {
	rotation = math.Mod(rotation, 2*math.Pi)
	positive := math.Mod(rotation+2*math.Pi, 2*math.Pi)
	cx, cy := box.X+box.W/2, box.Y+box.H/2
	w, h := box.W/2, box.H/2
	x0, y0, x1, y1 := cx, cy, cx, cy

	switch {
	case positive <= 0.25*math.Pi || positive > 1.75*math.Pi:
		x0, y0 = x0-w, y0-h*math.Tan(rotation)
		x1, y1 = x1+w, y1+h*math.Tan(rotation)
	case positive <= 0.75*math.Pi:
		y0, x0 = y0-h, x0-w/math.Tan(rotation)
		y1, x1 = y1+h, x1+w/math.Tan(rotation)
	case positive <= 1.25*math.Pi:
		x0, y0 = x0+w, y0+h*math.Tan(rotation)
		x1, y1 = x1-w, y1-h*math.Tan(rotation)
	default:
		y0, x0 = y0+h, x0+w/math.Tan(rotation)
		y1, x1 = y1-h, x1-w/math.Tan(rotation)
	}
	return math.Round(x0), math.Round(y0), math.Round(x1), math.Round(y1)
}

// At returns the gradient color at pixel position (x, y). Positions before
// the first stop or after the last one take that stop's color.
func (r *Resolved) At(x, y float64) color.NRGBA {
	var t float64
	if r.Type == Radial {
		if r.R > 0 {
			t = math.Hypot(x-r.CX, y-r.CY) / r.R
		}
	} else {
		dx, dy := r.X2-r.X1, r.Y2-r.Y1
		if dd := dx*dx + dy*dy; dd > 0 {
			t = ((x-r.X1)*dx + (y-r.Y1)*dy) / dd
		}
	}
	return r.colorAt(t)
}

func (r *Resolved) colorAt(t float64) color.NRGBA {
	stops := r.Stops
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
	}
	return last.Color
}

// lerpColor blends two colors in sRGB, alpha included.
func lerpColor(c1, c2 color.NRGBA, t float64) color.NRGBA {
	a := colorful.Color{R: float64(c1.R) / 255, G: float64(c1.G) / 255, B: float64(c1.B) / 255}
	b := colorful.Color{R: float64(c2.R) / 255, G: float64(c2.G) / 255, B: float64(c2.B) / 255}
	r, g, bl := a.BlendRgb(b, t).Clamped().RGB255()
	return color.NRGBA{
		R: r, G: g, B: bl,
		A: uint8(math.Round(float64(c1.A) + t*(float64(c2.A)-float64(c1.A)))),
	}
}

// Key identifies the resolved gradient; equal keys paint identically.
func (r *Resolved) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%g,%g,%g,%g|%g,%g,%g", r.Type, r.X1, r.Y1, r.X2, r.Y2, r.CX, r.CY, r.R)
	for _, s := range r.Stops {
		fmt.Fprintf(&b, "|%g:%02x%02x%02x%02x", s.Offset, s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	}
	return b.String()
}
