package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/render/svg"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

func testScene(t *testing.T, cfg style.Config) (*layout.Matrix, *layout.Scene) {
	t.Helper()
	opts, err := style.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	m := layout.NewMatrix(21, func(row, col int) bool { return (row*3+col)%4 == 0 })
	s, err := layout.Layout(m, opts, nil)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return m, s
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 8 && d(a.G, b.G) <= 8 && d(a.B, b.B) <= 8 && d(a.A, b.A) <= 8
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// moduleCenters yields the pixel center of every module outside the finders.
func moduleCenters(s *layout.Scene, fn func(row, col, x, y int)) {
	for row := 0; row < s.Count; row++ {
		for col := 0; col < s.Count; col++ {
			finder := false
			for _, f := range s.Finders {
				finder = finder || f.Contains(row, col)
			}
			if finder {
				continue
			}
			x := int(s.X + (float64(col)+0.5)*s.DotSize)
			y := int(s.Y + (float64(row)+0.5)*s.DotSize)
			fn(row, col, x, y)
		}
	}
}

func TestRenderPaintsModules(t *testing.T) {
	m, s := testScene(t, style.Config{Width: 210, Height: 210})
	surface := NewSurface(210, 210)
	if err := NewRenderer(surface).Render(s, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	moduleCenters(s, func(row, col, x, y int) {
		want := white
		if m.IsDark(row, col) {
			want = black
		}
		if got := rgba(surface, x, y); !near(got, want) {
			t.Errorf("module (%d, %d) at (%d, %d) = %v, want %v", row, col, x, y, got, want)
		}
	})
	// Finder ring, its gap and its center.
	for _, tc := range []struct {
		x, y int
		want color.RGBA
	}{{5, 5, black}, {15, 15, white}, {35, 35, black}, {205, 5, black}, {5, 205, black}} {
		if got := rgba(surface, tc.x, tc.y); !near(got, tc.want) {
			t.Errorf("finder pixel (%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestGradientFill(t *testing.T) {
	_, s := testScene(t, style.Config{
		Width: 210, Height: 210,
		Background: style.BackgroundConfig{Gradient: &style.GradientConfig{
			Type:       "linear",
			ColorStops: []style.ColorStopConfig{{Offset: 0, Color: "#000"}, {Offset: 1, Color: "#fff"}},
		}},
		Dots: style.DotsConfig{Color: "transparent"},
	})
	surface := NewSurface(210, 210)
	if err := NewRenderer(surface).Render(s, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	left, right := rgba(surface, 10, 105), rgba(surface, 200, 105)
	if left.R >= right.R {
		t.Errorf("gradient not increasing: left %v right %v", left, right)
	}
	if mid := rgba(surface, 104, 105); mid.R < 110 || mid.R > 145 {
		t.Errorf("gradient middle = %v, want about half gray", mid)
	}
}

func TestDrawImageScalesLogo(t *testing.T) {
	surface := NewSurface(20, 20)
	logo := image.NewUniform(color.RGBA{255, 0, 0, 255})
	r := NewRenderer(surface)
	r.DrawImage(&boundedImage{logo, image.Rect(0, 0, 2, 2)}, 5, 5, 10, 10)
	if got := rgba(surface, 10, 10); !near(got, color.RGBA{255, 0, 0, 255}) {
		t.Errorf("logo pixel = %v, want red", got)
	}
	if got := rgba(surface, 1, 1); got.A != 0 {
		t.Errorf("pixel outside logo = %v, want transparent", got)
	}
}

type boundedImage struct {
	*image.Uniform
	bounds image.Rectangle
}

func (b *boundedImage) Bounds() image.Rectangle { return b.bounds }

func TestBackendsAgreeOnModuleCenters(t *testing.T) {
	m, s := testScene(t, style.Config{Width: 210, Height: 210, Dots: style.DotsConfig{Type: "rounded"}})

	surface := NewSurface(210, 210)
	if err := NewRenderer(surface).Render(s, nil); err != nil {
		t.Fatalf("raster Render() error = %v", err)
	}
	doc := svg.NewDocument(210, 210)
	if err := svg.NewRenderer(doc).Render(s, nil); err != nil {
		t.Fatalf("svg Render() error = %v", err)
	}
	vector, err := RasterizeSVG(doc.Bytes(), 210, 210)
	if err != nil {
		t.Fatalf("RasterizeSVG() error = %v", err)
	}
	moduleCenters(s, func(row, col, x, y int) {
		a, b := rgba(surface, x, y), rgba(vector, x, y)
		if !near(a, b) {
			t.Errorf("module (%d, %d) dark=%v: raster %v, vector %v", row, col, m.IsDark(row, col), a, b)
		}
	})
}

func TestFinderRingsKeepTheirGap(t *testing.T) {
	m, err := encoder.GoQRCode{}.Encode("hello", style.QROptions{ErrorCorrectionLevel: style.ECLevelQ})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// Mid-edge and center modules of a finder, relative to its corner.
	cells := []struct {
		row, col int
		dark     bool
	}{
		{0, 3, true}, {3, 0, true}, {6, 3, true}, {3, 6, true},
		{1, 3, false}, {3, 1, false}, {5, 3, false}, {3, 5, false},
		{3, 3, true},
	}
	for _, kind := range []string{"square", "dot", "extra-rounded"} {
		opts, err := style.Resolve(style.Config{Width: 210, Height: 210, CornersSquare: style.CornersSquareConfig{Type: kind}})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		s, err := layout.Layout(m, opts, nil)
		if err != nil {
			t.Fatalf("Layout() error = %v", err)
		}
		surface := NewSurface(210, 210)
		if err := NewRenderer(surface).Render(s, nil); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		doc := svg.NewDocument(210, 210)
		if err := svg.NewRenderer(doc).Render(s, nil); err != nil {
			t.Fatalf("svg Render() error = %v", err)
		}
		vector, err := RasterizeSVG(doc.Bytes(), 210, 210)
		if err != nil {
			t.Fatalf("RasterizeSVG() error = %v", err)
		}

		for _, f := range s.Finders {
			for _, c := range cells {
				x := int(s.X + (float64(f.Col+c.col)+0.5)*s.DotSize)
				y := int(s.Y + (float64(f.Row+c.row)+0.5)*s.DotSize)
				want := white
				if c.dark {
					want = black
				}
				for name, img := range map[string]image.Image{"raster": surface, "vector": vector} {
					if got := rgba(img, x, y); !near(got, want) {
						t.Errorf("%s %s finder at (%d, %d) module (%d, %d) = %v, want %v",
							kind, name, f.Row, f.Col, c.row, c.col, got, want)
					}
				}
			}
		}
	}
}

func TestRasterizeSVGRejectsBadSize(t *testing.T) {
	if _, err := RasterizeSVG([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0, 10); err == nil {
		t.Errorf("RasterizeSVG() error = nil, want error")
	}
}
