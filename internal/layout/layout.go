// Package layout turns a QR module matrix and styling options into an ordered
// list of backend-independent draw instructions.
package layout

import (
	"math"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// FinderSize is the side of a finder pattern in modules.
const FinderSize = 7

type cellState uint8

const (
	cellFree cellState = iota
	cellFinder
	cellHidden
)

type engine struct {
	m       *Matrix
	o       style.Options
	count   int
	dot     float64
	x, y    float64
	minSize float64
	state   *grid[cellState]

	dotsFill gradient.Fill
	bgFill   gradient.Fill
	scene    *Scene
}

// Layout computes the scene for m styled by opts. img is the natural size of
// the loaded image, or nil when no image is drawn.
//
// Instructions come out in paint order: the canvas backdrop, one background
// tile per visible module, the data dots, the circle ornament, the finder
// patterns and finally the image. The matrix is only read.
func Layout(m *Matrix, opts style.Options, img *ImageSize) (*Scene, error) {
	count := m.Size()
	if count == 0 {
		return nil, qrerrors.New(qrerrors.ErrCodeRender, "QR code is empty")
	}
	if count > opts.Width || count > opts.Height {
		return nil, qrerrors.New(qrerrors.ErrCodeConfiguration,
			"canvas too small: %d modules do not fit in %dx%d", count, opts.Width, opts.Height)
	}

	e := &engine{m: m, o: opts, count: count, state: newGrid[cellState](count)}
	e.minSize = float64(min(opts.Width, opts.Height) - 2*opts.Margin)
	realSize := e.minSize
	if opts.Shape == style.ShapeCircle {
		realSize /= math.Sqrt2
	}
	e.dot = e.round(realSize / float64(count))
	if e.dot <= 0 {
		return nil, qrerrors.New(qrerrors.ErrCodeConfiguration,
			"canvas too small: %d modules leave no room for a dot", count)
	}
	e.x = e.round((float64(opts.Width) - float64(count)*e.dot) / 2)
	e.y = e.round((float64(opts.Height) - float64(count)*e.dot) / 2)

	canvas := gradient.Box{W: float64(opts.Width), H: float64(opts.Height)}
	e.dotsFill = opts.Dots.Paint.Fill(canvas, 0)
	e.bgFill = opts.Background.Paint.Fill(canvas, 0)

	e.scene = &Scene{
		Width:   opts.Width,
		Height:  opts.Height,
		Count:   count,
		DotSize: e.dot,
		X:       e.x,
		Y:       e.y,
		Finders: finders(count),
	}
	for _, f := range e.scene.Finders {
		for row := f.Row; row < f.Row+f.Size; row++ {
			for col := f.Col; col < f.Col+f.Size; col++ {
				e.state.set(row, col, cellFinder)
			}
		}
	}
	if img != nil {
		e.reserve(*img)
	}

	e.canvas()
	e.background()
	e.dots()
	if opts.Shape == style.ShapeCircle {
		e.ornament()
	}
	e.corners()
	e.image()
	if opts.Shape == style.ShapeCircle {
		e.clipCircle()
	}
	return e.scene, nil
}

func (e *engine) round(v float64) float64 {
	if e.o.Dots.RoundSize {
		return math.Floor(v)
	}
	return v
}

func finders(count int) []FinderRegion {
	far := count - FinderSize
	return []FinderRegion{
		{Row: 0, Col: 0, Size: FinderSize, Rotation: 0},
		{Row: 0, Col: far, Size: FinderSize, Rotation: math.Pi / 2},
		{Row: far, Col: 0, Size: FinderSize, Rotation: -math.Pi / 2},
	}
}

// reserve places the image reservation and, with hideBackgroundDots, hides
// the modules under it.
func (e *engine) reserve(img ImageSize) {
	cover := e.o.ImageOptions.ImageSize * e.o.QR.ErrorCorrectionLevel.Percent()
	maxHidden := int(math.Floor(cover * float64(e.count*e.count)))
	box := imageBox(img, maxHidden, e.count-2*FinderSize, e.dot)
	if box.hideX <= 0 || box.hideY <= 0 {
		return
	}

	full := float64(e.count) * e.dot
	xB := math.Floor((float64(e.o.Width) - full) / 2)
	yB := math.Floor((float64(e.o.Height) - full) / 2)
	margin := float64(e.o.ImageOptions.Margin)
	r := &Reservation{
		Row:    (e.count - box.hideY) / 2,
		Col:    (e.count - box.hideX) / 2,
		Rows:   box.hideY,
		Cols:   box.hideX,
		Hidden: e.o.ImageOptions.HideBackgroundDots,
		X:      xB + margin + (full-box.width)/2,
		Y:      yB + margin + (full-box.height)/2,
		W:      box.width - 2*margin,
		H:      box.height - 2*margin,
	}
	e.scene.Reservation = r
	if !r.Hidden {
		return
	}
	for row := r.Row; row < r.Row+r.Rows; row++ {
		for col := r.Col; col < r.Col+r.Cols; col++ {
			if e.state.at(row, col) == cellFree {
				e.state.set(row, col, cellHidden)
			}
		}
	}
}

func (e *engine) visible(row, col int) bool {
	return e.state.inside(row, col) && e.state.at(row, col) == cellFree
}

// dark reports whether a module takes part in dot rounding. Finder, hidden
// and out of range modules never do.
func (e *engine) dark(row, col int) bool {
	return e.visible(row, col) && e.m.IsDark(row, col)
}

func (e *engine) emit(in Instruction) {
	e.scene.Instructions = append(e.scene.Instructions, in)
}

func fromShape(region Region, s geometry.Shape, fill gradient.Fill) Instruction {
	return Instruction{
		Region:   region,
		Kind:     s.Kind,
		X:        s.X,
		Y:        s.Y,
		W:        s.W,
		H:        s.H,
		Rotation: s.Rotation,
		Radii:    s.Radii,
		Path:     s.Path,
		EvenOdd:  s.Hole != nil,
		Fill:     fill,
	}
}

func cell(in Instruction, row, col int, n geometry.Neighbors) Instruction {
	in.Cell = true
	in.Row, in.Col = row, col
	in.Neighbors = n
	return in
}

func (e *engine) canvas() {
	w, h := float64(e.o.Width), float64(e.o.Height)
	radius := math.Min(w, h) / 2 * e.o.Background.Round
	e.emit(fromShape(RegionCanvas, geometry.Rect(0, 0, w, h, radius), e.bgFill))
}

func (e *engine) background() {
	for row := 0; row < e.count; row++ {
		for col := 0; col < e.count; col++ {
			if !e.visible(row, col) {
				continue
			}
			s := geometry.Square(e.x+float64(col)*e.dot, e.y+float64(row)*e.dot, e.dot)
			e.emit(cell(fromShape(RegionBackground, s, e.bgFill), row, col, 0))
		}
	}
}

func (e *engine) dots() {
	for row := 0; row < e.count; row++ {
		for col := 0; col < e.count; col++ {
			if !e.dark(row, col) {
				continue
			}
			n := geometry.NeighborsOf(func(dCol, dRow int) bool {
				return e.dark(row+dRow, col+dCol)
			})
			s := geometry.Dot(e.o.Dots.Type, e.x+float64(col)*e.dot, e.y+float64(row)*e.dot, e.dot, n)
			e.emit(cell(fromShape(RegionDots, s, e.dotsFill), row, col, n))
		}
	}
}

// ornament fills the ring between the symbol and the enclosing circle with
// modules mirrored from the symbol's edges. They carry no information.
func (e *engine) ornament() {
	extra := int(math.Floor((e.minSize/e.dot - float64(e.count)) / 2))
	if extra <= 0 {
		return
	}
	fakeCount := e.count + 2*extra
	center := e.round(float64(fakeCount) / 2)
	fake := newGrid[bool](fakeCount)
	mirror := func(i int) int {
		switch {
		case i-2*extra < 0:
			return i
		case i >= e.count:
			return i - 2*extra
		default:
			return i - extra
		}
	}
	for row := 0; row < fakeCount; row++ {
		for col := 0; col < fakeCount; col++ {
			if row >= extra-1 && row <= fakeCount-extra && col >= extra-1 && col <= fakeCount-extra {
				continue
			}
			if math.Hypot(float64(row)-center, float64(col)-center) > center {
				continue
			}
			fake.set(row, col, e.m.IsDark(mirror(row), mirror(col)))
		}
	}

	x0 := e.x - float64(extra)*e.dot
	y0 := e.y - float64(extra)*e.dot
	for row := 0; row < fakeCount; row++ {
		for col := 0; col < fakeCount; col++ {
			if !fake.at(row, col) {
				continue
			}
			n := geometry.NeighborsOf(func(dCol, dRow int) bool {
				return fake.at(row+dRow, col+dCol)
			})
			s := geometry.Dot(e.o.Dots.Type, x0+float64(col)*e.dot, y0+float64(row)*e.dot, e.dot, n)
			e.emit(cell(fromShape(RegionOrnament, s, e.dotsFill), row-extra, col-extra, n))
		}
	}
}

// corners emits the ring and center of every finder. Unset finder styles
// follow the dots type and paint.
func (e *engine) corners() {
	squareType := e.o.CornersSquare.Type
	if squareType == "" {
		squareType = geometry.CornerSquareType(e.o.Dots.Type)
	}
	dotType := e.o.CornersDot.Type
	if dotType == "" {
		dotType = geometry.CornerDotType(e.o.Dots.Type)
	}

	for _, f := range e.scene.Finders {
		x := e.x + float64(f.Col)*e.dot
		y := e.y + float64(f.Row)*e.dot
		size := float64(f.Size) * e.dot

		fill := e.dotsFill
		if e.o.CornersSquare.Paint.Set {
			fill = e.o.CornersSquare.Paint.Fill(gradient.Box{X: x, Y: y, W: size, H: size}, f.Rotation)
		}
		e.emit(fromShape(RegionCornerSquare, geometry.CornerSquare(squareType, x, y, size, f.Rotation), fill))

		dx, dy, dsize := x+2*e.dot, y+2*e.dot, 3*e.dot
		fill = e.dotsFill
		if e.o.CornersDot.Paint.Set {
			fill = e.o.CornersDot.Paint.Fill(gradient.Box{X: dx, Y: dy, W: dsize, H: dsize}, f.Rotation)
		}
		e.emit(fromShape(RegionCornerDot, geometry.CornerDot(dotType, dx, dy, dsize, f.Rotation), fill))
	}
}

func (e *engine) image() {
	r := e.scene.Reservation
	if r == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	in := fromShape(RegionImage, geometry.Rect(r.X, r.Y, r.W, r.H, 0), gradient.Fill{})
	e.emit(in)
}

// clipCircle drops module instructions centered outside the circle the
// symbol is inscribed in.
func (e *engine) clipCircle() {
	cx, cy := float64(e.o.Width)/2, float64(e.o.Height)/2
	radius := e.minSize / 2
	kept := e.scene.Instructions[:0]
	for _, in := range e.scene.Instructions {
		switch in.Region {
		case RegionBackground, RegionDots, RegionOrnament:
			if math.Hypot(in.X+in.W/2-cx, in.Y+in.H/2-cy) > radius {
				continue
			}
		}
		kept = append(kept, in)
	}
	e.scene.Instructions = kept
}
