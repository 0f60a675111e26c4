package geometry

import "math"

// Corner indexes into Radii.
type Corner int

const (
	TopLeftCorner Corner = iota
	TopRightCorner
	BottomRightCorner
	BottomLeftCorner
)

// Radii holds corner radii in top-left, top-right, bottom-right, bottom-left
// order.
type Radii [4]float64

// IsZero reports whether every corner is sharp.
func (r Radii) IsZero() bool {
	return r == Radii{}
}

// Rotate returns the radii after turning the shape by theta radians. Only
// whole quarter turns move corners; the angle is rounded to the nearest one.
func (r Radii) Rotate(theta float64) Radii {
	q := int(math.Round(theta/(math.Pi/2))) % 4
	if q < 0 {
		q += 4
	}
	var out Radii
	for i := range r {
		out[(i+q)%4] = r[i]
	}
	return out
}

func (r Radii) fit(w, h float64) Radii {
	limit := math.Min(w, h)
	for i := range r {
		r[i] = math.Max(0, math.Min(r[i], limit))
	}
	scale := 1.0
	for _, side := range []struct{ a, b, length float64 }{
		{r[TopLeftCorner], r[TopRightCorner], w},
		{r[TopRightCorner], r[BottomRightCorner], h},
		{r[BottomRightCorner], r[BottomLeftCorner], w},
		{r[BottomLeftCorner], r[TopLeftCorner], h},
	} {
		if sum := side.a + side.b; sum > side.length && sum > 0 {
			scale = math.Min(scale, side.length/sum)
		}
	}
	if scale < 1 {
		for i := range r {
			r[i] *= scale
		}
	}
	return r
}

// Kind is the geometric family of a shape.
type Kind uint8

const (
	KindSquare Kind = iota
	KindCircle
	KindRoundedRect
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindSquare:
		return "square"
	case KindCircle:
		return "circle"
	case KindRoundedRect:
		return "rounded-rect"
	default:
		return "path"
	}
}

// Shape is a generated outline together with the parameters it came from.
type Shape struct {
	Kind     Kind
	X, Y     float64
	W, H     float64
	Rotation float64
	// Radii are the outer corner radii after rotation.
	Radii Radii
	// Hole is the cut-out of a ring shape, nil otherwise.
	Hole *Shape
	Path Path
}

// Center returns the center of the shape's box.
func (s Shape) Center() Point {
	return Point{X: s.X + s.W/2, Y: s.Y + s.H/2}
}

func newRoundedShape(x, y, w, h float64, r Radii, rotation float64) Shape {
	s := Shape{
		X: x, Y: y, W: w, H: h,
		Rotation: rotation,
		Radii:    r.fit(w, h).Rotate(rotation),
	}
	s.Path = RoundedRect(x, y, w, h, r).Rotate(x+w/2, y+h/2, rotation)
	switch {
	case s.Radii.IsZero():
		s.Kind = KindSquare
	case w == h && s.Radii == Radii{w / 2, w / 2, w / 2, w / 2}:
		s.Kind = KindCircle
	default:
		s.Kind = KindRoundedRect
	}
	return s
}

// Square returns a plain square cell.
func Square(x, y, size float64) Shape {
	return newRoundedShape(x, y, size, size, Radii{}, 0)
}

// Circle returns the circle inscribed in the cell.
func Circle(x, y, size float64) Shape {
	r := size / 2
	return newRoundedShape(x, y, size, size, Radii{r, r, r, r}, 0)
}

// Rect returns a rectangle with uniform corner radius.
func Rect(x, y, w, h, radius float64) Shape {
	return newRoundedShape(x, y, w, h, Radii{radius, radius, radius, radius}, 0)
}
