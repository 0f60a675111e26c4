package layout

import (
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
)

// Region tags what part of the symbol an instruction paints.
type Region string

const (
	RegionCanvas       Region = "canvas"
	RegionBackground   Region = "background"
	RegionDots         Region = "dots"
	RegionOrnament     Region = "ornament"
	RegionCornerSquare Region = "corner-square"
	RegionCornerDot    Region = "corner-dot"
	RegionImage        Region = "image"
)

// Instruction describes one primitive to paint. Positions and sizes are in
// pixels. Backends must not modify instructions.
type Instruction struct {
	Region Region
	Kind   geometry.Kind
	// Cell reports whether Row and Col name a module. Ornament modules sit
	// outside the symbol, so their coordinates may be negative or past the
	// last module.
	Cell     bool
	Row, Col int

	X, Y, W, H float64
	Rotation   float64
	Radii      geometry.Radii
	Neighbors  geometry.Neighbors

	Path geometry.Path
	// EvenOdd marks rings. Their hole is wound in reverse, so non-zero
	// filling cuts it too.
	EvenOdd bool
	Fill    gradient.Fill
}

// FinderRegion is one of the three 7×7 finder patterns, in module units.
type FinderRegion struct {
	Row, Col int
	Size     int
	Rotation float64
}

// Contains reports whether the module at (row, col) belongs to the finder.
func (f FinderRegion) Contains(row, col int) bool {
	return row >= f.Row && row < f.Row+f.Size && col >= f.Col && col < f.Col+f.Size
}

// Reservation is the centered area kept for the embedded image. Row, Col,
// Rows and Cols are in modules; X, Y, W and H are the pixel rectangle the image
// is drawn into, already inset by the image margin.
type Reservation struct {
	Row, Col   int
	Rows, Cols int
	Hidden     bool
	X, Y, W, H float64
}

// Contains reports whether the module at (row, col) lies in the reservation.
func (r *Reservation) Contains(row, col int) bool {
	return r != nil && row >= r.Row && row < r.Row+r.Rows && col >= r.Col && col < r.Col+r.Cols
}

// ImageSize is the natural size of the embedded image.
type ImageSize struct {
	Width, Height int
}

// Scene is the complete layout of one render.
type Scene struct {
	Width, Height int
	Count         int
	DotSize       float64
	// X and Y are the pixel position of module (0, 0).
	X, Y         float64
	Finders      []FinderRegion
	Reservation  *Reservation
	Instructions []Instruction
}

// Region returns the instructions tagged r, in paint order.
func (s *Scene) Region(r Region) []Instruction {
	var out []Instruction
	for _, in := range s.Instructions {
		if in.Region == r {
			out = append(out, in)
		}
	}
	return out
}

// Image returns the image instruction, if any.
func (s *Scene) Image() (Instruction, bool) {
	for _, in := range s.Instructions {
		if in.Region == RegionImage {
			return in, true
		}
	}
	return Instruction{}, false
}
