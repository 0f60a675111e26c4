package layout

import "strings"

// grid is a square 2D array stored row-major. Reads outside the grid return
// the zero value and writes outside it are dropped.
type grid[T any] struct {
	size  int
	cells []T
}

func newGrid[T any](size int) *grid[T] {
	return &grid[T]{size: size, cells: make([]T, size*size)}
}

func (g *grid[T]) inside(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.size && col < g.size
}

func (g *grid[T]) at(row, col int) T {
	if !g.inside(row, col) {
		var zero T
		return zero
	}
	return g.cells[row*g.size+col]
}

func (g *grid[T]) set(row, col int, v T) {
	if g.inside(row, col) {
		g.cells[row*g.size+col] = v
	}
}

// Matrix is the dark/light module grid produced by an encoder. It is never
// modified after construction.
type Matrix struct {
	g *grid[bool]
}

// NewMatrix builds a size×size matrix asking dark for every cell once.
func NewMatrix(size int, dark func(row, col int) bool) *Matrix {
	if size < 0 {
		size = 0
	}
	g := newGrid[bool](size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			g.set(row, col, dark(row, col))
		}
	}
	return &Matrix{g: g}
}

// MatrixFromRows builds a matrix from rows of '#' (dark) and any other
// character (light). The size is the number of rows; short rows are padded
// with light modules.
func MatrixFromRows(rows ...string) *Matrix {
	return NewMatrix(len(rows), func(row, col int) bool {
		return col < len(rows[row]) && rows[row][col] == '#'
	})
}

// Size returns the number of modules per side.
func (m *Matrix) Size() int {
	if m == nil || m.g == nil {
		return 0
	}
	return m.g.size
}

// IsDark reports whether the module at (row, col) is dark. Cells outside the
// matrix are light.
func (m *Matrix) IsDark(row, col int) bool {
	if m == nil || m.g == nil {
		return false
	}
	return m.g.at(row, col)
}

// String renders the matrix with '#' for dark and '.' for light modules.
func (m *Matrix) String() string {
	var b strings.Builder
	for row := 0; row < m.Size(); row++ {
		for col := 0; col < m.Size(); col++ {
			if m.IsDark(row, col) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
