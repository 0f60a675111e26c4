package geometry

import "math"

// DotType selects the shape family of data modules.
type DotType string

const (
	DotSquare        DotType = "square"
	DotDots          DotType = "dots"
	DotRounded       DotType = "rounded"
	DotExtraRounded  DotType = "extra-rounded"
	DotClassy        DotType = "classy"
	DotClassyRounded DotType = "classy-rounded"
)

// DotTypes lists every data module type.
var DotTypes = []DotType{DotDots, DotRounded, DotClassy, DotClassyRounded, DotSquare, DotExtraRounded}

// Neighbors records which of the eight surrounding modules are dark.
type Neighbors uint8

const (
	Top Neighbors = 1 << iota
	Right
	Bottom
	Left
	TopLeft
	TopRight
	BottomRight
	BottomLeft
)

// Has reports whether every bit of m is set.
func (n Neighbors) Has(m Neighbors) bool {
	return n&m == m
}

// Orthogonal returns the number of dark modules directly above, below, left
// and right.
func (n Neighbors) Orthogonal() int {
	count := 0
	for _, m := range []Neighbors{Top, Right, Bottom, Left} {
		if n.Has(m) {
			count++
		}
	}
	return count
}

// NeighborsOf builds the mask from a lookup relative to the current module.
func NeighborsOf(dark func(dCol, dRow int) bool) Neighbors {
	var n Neighbors
	for _, o := range []struct {
		dCol, dRow int
		bit        Neighbors
	}{
		{0, -1, Top}, {1, 0, Right}, {0, 1, Bottom}, {-1, 0, Left},
		{-1, -1, TopLeft}, {1, -1, TopRight}, {1, 1, BottomRight}, {-1, 1, BottomLeft},
	} {
		if dark(o.dCol, o.dRow) {
			n |= o.bit
		}
	}
	return n
}

// Dot returns the outline of one dark data module. Rounded families shrink
// their corner radii to zero on sides touching another dark module so runs of
// modules merge into one blob.
func Dot(kind DotType, x, y, size float64, n Neighbors) Shape {
	switch kind {
	case DotDots:
		return Circle(x, y, size)
	case DotRounded:
		return roundedDot(x, y, size, n, size/2)
	case DotExtraRounded:
		return roundedDot(x, y, size, n, size)
	case DotClassy:
		return classyDot(x, y, size, n, size/2)
	case DotClassyRounded:
		return classyDot(x, y, size, n, size)
	default:
		return Square(x, y, size)
	}
}

// roundedDot picks between circle, square, side-rounded and corner-rounded
// cells. The unrotated corner cell rounds its top-right corner and the side
// cell its right side; rotation turns them away from the neighbors.
func roundedDot(x, y, size float64, n Neighbors, cornerRadius float64) Shape {
	left, right, top, bottom := n.Has(Left), n.Has(Right), n.Has(Top), n.Has(Bottom)
	half := size / 2

	switch count := n.Orthogonal(); {
	case count == 0:
		return Circle(x, y, size)
	case count > 2 || (left && right) || (top && bottom):
		return Square(x, y, size)
	case count == 2:
		rotation := 0.0
		switch {
		case left && top:
			rotation = math.Pi / 2
		case top && right:
			rotation = math.Pi
		case right && bottom:
			rotation = -math.Pi / 2
		}
		return newRoundedShape(x, y, size, size, Radii{TopRightCorner: cornerRadius}, rotation)
	default:
		rotation := 0.0
		switch {
		case top:
			rotation = math.Pi / 2
		case right:
			rotation = math.Pi
		case bottom:
			rotation = -math.Pi / 2
		}
		return newRoundedShape(x, y, size, size, Radii{TopRightCorner: half, BottomRightCorner: half}, rotation)
	}
}

// classyDot rounds at most two opposite corners, giving the diagonal flow of
// the classy styles.
func classyDot(x, y, size float64, n Neighbors, cornerRadius float64) Shape {
	left, right, top, bottom := n.Has(Left), n.Has(Right), n.Has(Top), n.Has(Bottom)
	half := size / 2

	switch {
	case n.Orthogonal() == 0:
		return newRoundedShape(x, y, size, size, Radii{TopRightCorner: half, BottomLeftCorner: half}, math.Pi/2)
	case !left && !top:
		return newRoundedShape(x, y, size, size, Radii{TopRightCorner: cornerRadius}, -math.Pi/2)
	case !right && !bottom:
		return newRoundedShape(x, y, size, size, Radii{TopRightCorner: cornerRadius}, math.Pi/2)
	default:
		return Square(x, y, size)
	}
}
