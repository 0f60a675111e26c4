// Package geometry generates the outlines of QR modules and finder patterns.
//
// Every shape is reduced to a Path made of straight lines and cubic Béziers in
// pixel space, so the vector and raster backends paint exactly the same
// outline. Circular arcs are approximated with the usual four-segment cubic
// construction.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// kappa is the control point distance for a quarter circle of radius 1.
const kappa = 0.5522847498307936

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Op is a path segment operation.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	CubicTo
	Close
)

// Segment is one path operation. MoveTo and LineTo use Pts[0]; CubicTo uses
// Pts[0] and Pts[1] as control points and Pts[2] as the end point.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the point the segment finishes on.
func (s Segment) End() Point {
	if s.Op == CubicTo {
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is an ordered list of segments.
type Path []Segment

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	*p = append(*p, Segment{Op: MoveTo, Pts: [3]Point{{x, y}}})
}

// LineTo adds a straight line. Zero-length lines are dropped.
func (p *Path) LineTo(x, y float64) {
	if cur, ok := p.current(); ok && cur.X == x && cur.Y == y {
		return
	}
	*p = append(*p, Segment{Op: LineTo, Pts: [3]Point{{x, y}}})
}

// CubicTo adds a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	*p = append(*p, Segment{Op: CubicTo, Pts: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	*p = append(*p, Segment{Op: Close})
}

func (p Path) current() (Point, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Op != Close {
			return p[i].End(), true
		}
	}
	return Point{}, false
}

// Append returns p followed by the subpaths of q.
func (p Path) Append(q Path) Path {
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Reverse returns p with every subpath traversed in the opposite direction.
// A closed subpath stays closed.
func (p Path) Reverse() Path {
	out := make(Path, 0, len(p))
	for start := 0; start < len(p); {
		end := start + 1
		for end < len(p) && p[end].Op != MoveTo {
			end++
		}
		out = append(out, reverseSubpath(p[start:end])...)
		start = end
	}
	return out
}

func reverseSubpath(sub Path) Path {
	closed := sub[len(sub)-1].Op == Close
	if closed {
		sub = sub[:len(sub)-1]
	}
	if len(sub) == 0 {
		return nil
	}
	out := Path{{Op: MoveTo, Pts: [3]Point{sub[len(sub)-1].End()}}}
	for i := len(sub) - 1; i > 0; i-- {
		prev := sub[i-1].End()
		switch s := sub[i]; s.Op {
		case CubicTo:
			out = append(out, Segment{Op: CubicTo, Pts: [3]Point{s.Pts[1], s.Pts[0], prev}})
		default:
			out = append(out, Segment{Op: LineTo, Pts: [3]Point{prev}})
		}
	}
	if closed {
		out = append(out, Segment{Op: Close})
	}
	return out
}

// Rotate returns a copy of p rotated by theta radians around (cx, cy).
// Positive angles turn clockwise on screen, matching SVG's rotate().
func (p Path) Rotate(cx, cy, theta float64) Path {
	if theta == 0 {
		return append(Path(nil), p...)
	}
	sin, cos := math.Sincos(theta)
	out := make(Path, len(p))
	for i, s := range p {
		out[i].Op = s.Op
		for j, pt := range s.Pts {
			dx, dy := pt.X-cx, pt.Y-cy
			out[i].Pts[j] = Point{
				X: snap(cx + dx*cos - dy*sin),
				Y: snap(cy + dx*sin + dy*cos),
			}
		}
	}
	return out
}

// Bounds returns the bounding box of all segment points.
func (p Path) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range p {
		n := 1
		switch s.Op {
		case Close:
			continue
		case CubicTo:
			n = 3
		}
		for _, pt := range s.Pts[:n] {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	return minX, minY, maxX, maxY
}

// SVG returns the path in SVG "d" attribute syntax.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case MoveTo:
			b.WriteString("M ")
			writePoint(&b, s.Pts[0])
		case LineTo:
			b.WriteString("L ")
			writePoint(&b, s.Pts[0])
		case CubicTo:
			b.WriteString("C ")
			writePoint(&b, s.Pts[0])
			b.WriteByte(' ')
			writePoint(&b, s.Pts[1])
			b.WriteByte(' ')
			writePoint(&b, s.Pts[2])
		case Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(FormatNumber(pt.X))
	b.WriteByte(' ')
	b.WriteString(FormatNumber(pt.Y))
}

// FormatNumber formats v with at most three decimals and no trailing zeros.
func FormatNumber(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// snap removes floating point noise left by sin/cos of quarter turns.
func snap(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// RoundedRect returns the closed outline of a rectangle with per-corner
// radii. Radii are clamped to the rectangle and scaled down together when two
// adjacent corners would overlap.
func RoundedRect(x, y, w, h float64, r Radii) Path {
	r = r.fit(w, h)
	tl, tr, br, bl := r[TopLeftCorner], r[TopRightCorner], r[BottomRightCorner], r[BottomLeftCorner]

	var p Path
	p.MoveTo(x+tl, y)
	p.LineTo(x+w-tr, y)
	if tr > 0 {
		p.CubicTo(x+w-tr+kappa*tr, y, x+w, y+tr-kappa*tr, x+w, y+tr)
	}
	p.LineTo(x+w, y+h-br)
	if br > 0 {
		p.CubicTo(x+w, y+h-br+kappa*br, x+w-br+kappa*br, y+h, x+w-br, y+h)
	}
	p.LineTo(x+bl, y+h)
	if bl > 0 {
		p.CubicTo(x+bl-kappa*bl, y+h, x, y+h-bl+kappa*bl, x, y+h-bl)
	}
	p.LineTo(x, y+tl)
	if tl > 0 {
		p.CubicTo(x, y+tl-kappa*tl, x+tl-kappa*tl, y, x+tl, y)
	}
	p.Close()
	return p
}
