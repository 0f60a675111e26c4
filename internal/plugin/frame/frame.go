// Package frame draws a decorative border inside the margin of a rendered
// QR code.
package frame

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"
	"strings"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin"
	"github.com/cristianadrielbraun/qrstyle/internal/render/svg"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// Name is the name the frame plugin registers under.
const Name = "frame"

// Patterns lists the accepted border patterns. Each may be prefixed with
// "rounded-" to round the frame's corners.
var Patterns = []string{"simple", "dashed", "dotted", "double", "diagonal", "grid", "irregular"}

// Plugin draws the frame. Configuration keys:
//
//	pattern        one of Patterns, optionally "rounded-" prefixed
//	color          frame color
//	width          band thickness in pixels; 0 fills the whole margin
//	gradientStart  with gradientMiddle and gradientEnd, a diagonal
//	               gradient from bottom-left to top-right replacing color
type Plugin struct {
	plugin.Base
}

// New returns a frame plugin with cfg merged over the defaults.
func New(cfg plugin.Config) *Plugin {
	p := &Plugin{Base: plugin.NewBase(Name, plugin.Config{
		"pattern": "simple",
		"color":   "#000000",
		"width":   0,
	})}
	p.UpdateConfig(cfg)
	return p
}

// Render draws the frame on every output the host has.
func (p *Plugin) Render(_ context.Context, host plugin.Host) error {
	scene := host.Scene()
	if scene == nil {
		return qrerrors.New(qrerrors.ErrCodePlugin, "frame: nothing has been rendered")
	}
	f, err := newFrame(p.Config(), scene.Width, scene.Height, int(math.Floor(math.Min(scene.X, scene.Y))))
	if err != nil {
		return err
	}
	mask := f.mask()
	if dst := host.Surface(); dst != nil {
		src := &fillImage{fill: f.fill, bounds: dst.Bounds()}
		draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
	}
	if doc := host.Document(); doc != nil {
		g := svg.El("g", "data-region", "frame")
		svg.NewRenderer(doc).Paint(g, f.fill)
		for _, r := range runs(mask) {
			g.Append(svg.El("rect",
				"x", geometry.FormatNumber(float64(r.Min.X)),
				"y", geometry.FormatNumber(float64(r.Min.Y)),
				"width", geometry.FormatNumber(float64(r.Dx())),
				"height", geometry.FormatNumber(float64(r.Dy())),
			))
		}
		doc.Append(g)
	}
	return nil
}

type frame struct {
	pattern string
	rounded bool
	w, h    int
	width   int
	room    int
	fill    gradient.Fill
}

// newFrame reads cfg for a w×h canvas whose modules start room pixels from
// each edge. The band never reaches into the modules.
func newFrame(cfg plugin.Config, w, h, room int) (*frame, error) {
	pattern := strings.ToLower(strings.TrimSpace(cfg.String("pattern", "simple")))
	f := &frame{w: w, h: h, room: room}
	f.pattern, f.rounded = strings.CutPrefix(pattern, "rounded-")
	if !slices.Contains(Patterns, f.pattern) {
		return nil, qrerrors.New(qrerrors.ErrCodePlugin, "frame: unknown pattern %q", pattern)
	}

	f.width = cfg.Int("width", 0)
	if f.width <= 0 || f.width > room {
		f.width = room
	}
	if f.width <= 0 {
		return nil, qrerrors.New(qrerrors.ErrCodePlugin, "frame: no margin to draw in")
	}

	fill, err := frameFill(cfg, w, h)
	if err != nil {
		return nil, err
	}
	f.fill = fill
	return f, nil
}

func frameFill(cfg plugin.Config, w, h int) (gradient.Fill, error) {
	parse := func(key, def string) (color.NRGBA, error) {
		c, err := style.ParseColor(cfg.String(key, def))
		if err != nil {
			return color.NRGBA{}, qrerrors.Wrap(qrerrors.ErrCodePlugin, err, "frame: %s", key)
		}
		return c, nil
	}
	if cfg.String("gradientStart", "") == "" {
		c, err := parse("color", "#000000")
		return gradient.Solid(c), err
	}
	var stops []gradient.Stop
	for i, key := range []string{"gradientStart", "gradientMiddle", "gradientEnd"} {
		if cfg.String(key, "") == "" {
			continue
		}
		c, err := parse(key, "")
		if err != nil {
			return gradient.Fill{}, err
		}
		stops = append(stops, gradient.Stop{Offset: float64(i) / 2, Color: c})
	}
	g := gradient.Gradient{Type: gradient.Linear, Rotation: -math.Pi / 4, Stops: stops}
	return gradient.Resolve(g, gradient.Box{W: float64(w), H: float64(h)}), nil
}

// mask marks the pixels the frame covers.
func (f *frame) mask() *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			if f.covers(x, y) {
				m.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return m
}

func (f *frame) covers(x, y int) bool {
	d := f.edgeDistance(x, y)
	if d < 0 || d >= f.band() || f.inModules(x, y) {
		return false
	}

	fw, w, h := f.width, f.w, f.h
	corner := func(size int) bool {
		return (x < size || x >= w-size) && (y < size || y >= h-size)
	}
	switch f.pattern {
	case "dashed":
		dash := max(fw*3, 6)
		return corner(fw) || dashed(x, y, fw, w, h, func(int) (int, int) { return dash, dash / 2 })
	case "irregular":
		return corner(fw) || dashed(x, y, fw, w, h, func(pos int) (int, int) {
			hash := (pos * 13) % 17
			return 4 + hash%8, 2 + hash%4
		})
	case "dotted":
		return !f.perforated(x, y)
	case "double":
		outer, gap, inner := doubleBands(f.band())
		return d < outer || (d >= outer+gap && d < outer+gap+inner)
	case "diagonal":
		spacing := max(fw/2, 2)
		thickness := min(max(fw/5, 2), max(spacing-1, 1))
		return (x+y)%spacing < thickness
	case "grid":
		cell := max(fw/3, 2)
		return (x/cell+y/cell)%2 == 0
	default:
		return true
	}
}

// edgeDistance is how far (x, y) lies inside the canvas outline, negative
// outside it. Rounded frames measure against a rounded outline.
func (f *frame) edgeDistance(x, y int) int {
	r := 0
	if f.rounded {
		r = f.innerRadius() + f.width
	}
	cx := clampInt(x, r, f.w-1-r)
	cy := clampInt(y, r, f.h-1-r)
	if r > 0 && (cx != x || cy != y) && f.w > 2*r && f.h > 2*r {
		return r - int(math.Ceil(math.Hypot(float64(x-cx), float64(y-cy))))
	}
	return min(x, y, f.w-1-x, f.h-1-y)
}

func (f *frame) innerRadius() int {
	return int(math.Max(2, math.Round(float64(f.width)*0.55)))
}

// carve is the strip removed from the inside of a rounded band.
func (f *frame) carve() int {
	return min(int(math.Max(2, math.Ceil(float64(f.width)*0.33))), f.width-1)
}

// band is the drawn thickness: the width, less the carve when rounded.
// Without the carve the rounded outline's inner edge would bulge past
// the margin at the corners.
func (f *frame) band() int {
	if f.rounded {
		return f.width - f.carve()
	}
	return f.width
}

func (f *frame) inModules(x, y int) bool {
	return x >= f.room && y >= f.room && x < f.w-f.room && y < f.h-f.room
}

// perforated reports whether (x, y) falls in one of the stamp-edge holes.
func (f *frame) perforated(x, y int) bool {
	fw, w, h := f.width, f.w, f.h
	spacing := max(fw, 6)
	radius := max(fw/3, 2)
	hole := func(along, across, center int) bool {
		if along%spacing >= radius*2 {
			return false
		}
		c := (along/spacing)*spacing + radius
		d1, d2 := along-c, across-center
		return d1*d1+d2*d2 <= radius*radius
	}
	switch {
	case y < fw:
		return hole(x, y, fw/2)
	case y >= h-fw:
		return hole(x, y, h-fw/2)
	case x < fw:
		return hole(y, x, fw/2)
	case x >= w-fw:
		return hole(y, x, w-fw/2)
	}
	return false
}

// dashed reports whether (x, y) lies on a dash of an edge. lengths returns
// the dash and gap length at a position along the edge.
func dashed(x, y, fw, w, h int, lengths func(pos int) (dash, gap int)) bool {
	on := func(pos, limit int) bool {
		if pos < fw || pos >= limit-fw {
			return false
		}
		dash, gap := lengths(pos)
		return (pos-fw)%(dash+gap) < dash
	}
	if (y < fw || y >= h-fw) && on(x, w) {
		return true
	}
	return (x < fw || x >= w-fw) && on(y, h)
}

// doubleBands splits a band into outer stroke, gap and inner stroke.
func doubleBands(fw int) (outer, gap, inner int) {
	outer = int(math.Max(2, math.Round(float64(fw)*0.4)))
	gap = int(math.Max(1, math.Round(float64(fw)*0.2)))
	inner = max(fw-outer-gap, 1)
	return outer, gap, inner
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return v
	}
	return max(lo, min(v, hi))
}

// runs covers the opaque pixels of m with rectangles. Equal runs on
// consecutive rows merge into one rectangle.
func runs(m *image.Alpha) []image.Rectangle {
	b := m.Bounds()
	var out []image.Rectangle
	open := map[[2]int]int{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		next := map[[2]int]int{}
		for x := b.Min.X; x < b.Max.X; {
			if m.AlphaAt(x, y).A == 0 {
				x++
				continue
			}
			start := x
			for x < b.Max.X && m.AlphaAt(x, y).A != 0 {
				x++
			}
			span := [2]int{start, x}
			if i, ok := open[span]; ok {
				out[i].Max.Y = y + 1
				next[span] = i
				continue
			}
			next[span] = len(out)
			out = append(out, image.Rect(start, y, x, y+1))
		}
		open = next
	}
	return out
}

// fillImage exposes a fill as an image for compositing.
type fillImage struct {
	fill   gradient.Fill
	bounds image.Rectangle
}

func (f *fillImage) ColorModel() color.Model { return color.NRGBAModel }

func (f *fillImage) Bounds() image.Rectangle { return f.bounds }

func (f *fillImage) At(x, y int) color.Color {
	if f.fill.Gradient != nil {
		return f.fill.Gradient.At(float64(x)+0.5, float64(y)+0.5)
	}
	return f.fill.Color
}
