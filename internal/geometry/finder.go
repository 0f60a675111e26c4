package geometry

// CornerSquareType selects the shape of the 7×7 finder ring.
type CornerSquareType string

const (
	CornerSquareDot          CornerSquareType = "dot"
	CornerSquareSquare       CornerSquareType = "square"
	CornerSquareExtraRounded CornerSquareType = "extra-rounded"
)

// CornerDotType selects the shape of the 3×3 finder center.
type CornerDotType string

const (
	CornerDotDot    CornerDotType = "dot"
	CornerDotSquare CornerDotType = "square"
)

// cornerProfile describes which finder corners are rounded and how much, as
// a fraction of half the shape size.
type cornerProfile struct {
	corners  [4]bool
	fraction float64
}

var (
	allCorners  = [4]bool{true, true, true, true}
	classyPairs = [4]bool{TopLeftCorner: true, BottomRightCorner: true}
)

func profileFor(kind string) cornerProfile {
	switch kind {
	case string(CornerSquareDot), string(DotDots):
		return cornerProfile{allCorners, 1}
	case string(DotExtraRounded):
		return cornerProfile{allCorners, 5.0 / 7}
	case string(DotRounded):
		return cornerProfile{allCorners, 3.0 / 7}
	case string(DotClassy):
		return cornerProfile{classyPairs, 5.0 / 7}
	case string(DotClassyRounded):
		return cornerProfile{classyPairs, 1}
	default:
		return cornerProfile{}
	}
}

func (p cornerProfile) radii(size float64) Radii {
	var r Radii
	for i, on := range p.corners {
		if on {
			r[i] = p.fraction * size / 2
		}
	}
	return r
}

// CornerSquare returns the finder ring at (x, y) spanning size pixels. The
// ring is the outer rounded square minus one inset by size/7. The hole is
// wound against the outline, so both the non-zero and the even-odd rule cut
// it. Finder shapes never consult neighbors.
func CornerSquare(kind CornerSquareType, x, y, size, rotation float64) Shape {
	dot := size / 7
	outer := profileFor(string(kind)).radii(size)
	var inner Radii
	for i, r := range outer {
		if r > dot {
			inner[i] = r - dot
		}
	}

	s := newRoundedShape(x, y, size, size, outer, rotation)
	hole := newRoundedShape(x+dot, y+dot, size-2*dot, size-2*dot, inner, rotation)
	s.Kind = KindPath
	s.Hole = &hole
	s.Path = s.Path.Append(hole.Path.Reverse())
	return s
}

// CornerDot returns the finder center at (x, y) spanning size pixels.
func CornerDot(kind CornerDotType, x, y, size, rotation float64) Shape {
	return newRoundedShape(x, y, size, size, profileFor(string(kind)).radii(size), rotation)
}
