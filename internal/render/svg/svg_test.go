package svg

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

func testScene(t *testing.T, cfg style.Config, img *layout.ImageSize) *layout.Scene {
	t.Helper()
	opts, err := style.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	m := layout.NewMatrix(21, func(row, col int) bool { return (row+2*col)%3 == 0 })
	s, err := layout.Layout(m, opts, img)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return s
}

func renderDoc(t *testing.T, s *layout.Scene, logo image.Image) *Document {
	t.Helper()
	doc := NewDocument(s.Width, s.Height)
	if err := NewRenderer(doc).Render(s, logo); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return doc
}

func countRegion(doc *Document, region string) int {
	n := 0
	for _, el := range doc.Elements() {
		if v, _ := el.Get("data-region"); v == region {
			n++
		}
	}
	return n
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := style.Config{
		Type:  "svg",
		Width: 300, Height: 300,
		Dots: style.DotsConfig{Type: "extra-rounded", Gradient: &style.GradientConfig{
			Type: "radial", ColorStops: []style.ColorStopConfig{{Offset: 0, Color: "#111"}, {Offset: 1, Color: "#a0f"}},
		}},
	}
	a := renderDoc(t, testScene(t, cfg, nil), nil).Bytes()
	b := renderDoc(t, testScene(t, cfg, nil), nil).Bytes()
	if !bytes.Equal(a, b) {
		t.Errorf("two renders of the same input differ")
	}
	if !bytes.HasPrefix(a, []byte(`<?xml version="1.0" encoding="UTF-8"?>`)) {
		t.Errorf("missing XML declaration: %.60s", a)
	}
}

func TestOneElementPerInstruction(t *testing.T) {
	s := testScene(t, style.Config{Width: 210, Height: 210}, nil)
	doc := renderDoc(t, s, nil)
	for _, region := range []layout.Region{layout.RegionCanvas, layout.RegionBackground, layout.RegionDots, layout.RegionCornerSquare, layout.RegionCornerDot} {
		if got, want := countRegion(doc, string(region)), len(s.Region(region)); got != want {
			t.Errorf("%s elements = %d, want %d", region, got, want)
		}
	}
	for _, el := range doc.Elements() {
		if v, _ := el.Get("data-region"); v == string(layout.RegionCornerSquare) {
			if el.Name != "path" {
				t.Errorf("corner square element = <%s>, want <path>", el.Name)
			}
			if rule, _ := el.Get("fill-rule"); rule != "evenodd" {
				t.Errorf("corner square fill-rule = %q, want evenodd", rule)
			}
		}
	}
}

func TestSquareDotMarkup(t *testing.T) {
	s := testScene(t, style.Config{Width: 210, Height: 210, Dots: style.DotsConfig{Color: "#ff0000"}}, nil)
	first := s.Region(layout.RegionDots)[0]
	doc := renderDoc(t, s, nil)
	var el *Element
	for _, e := range doc.Elements() {
		if v, _ := e.Get("data-region"); v == "dots" {
			el = e
			break
		}
	}
	if el == nil {
		t.Fatal("no dots element")
	}
	if el.Name != "rect" {
		t.Errorf("element = <%s>, want <rect>", el.Name)
	}
	want := map[string]string{
		"fill":   "#ff0000",
		"x":      geometry.FormatNumber(first.X),
		"y":      geometry.FormatNumber(first.Y),
		"width":  "10",
		"height": "10",
	}
	for k, v := range want {
		if got, _ := el.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestGradientsAreSharedInDefs(t *testing.T) {
	cfg := style.Config{
		Width: 210, Height: 210,
		Dots: style.DotsConfig{Gradient: &style.GradientConfig{
			Type: "linear", ColorStops: []style.ColorStopConfig{{Offset: 0, Color: "#000"}, {Offset: 1, Color: "#00f"}},
		}},
	}
	out := string(renderDoc(t, testScene(t, cfg, nil), nil).Bytes())
	if n := strings.Count(out, "<linearGradient"); n != 1 {
		t.Errorf("linearGradient count = %d, want 1 shared by all dots", n)
	}
	if !strings.Contains(out, `gradientUnits="userSpaceOnUse"`) {
		t.Errorf("gradient not in user space")
	}
	if !strings.Contains(out, `fill="url(#gradient-0)"`) {
		t.Errorf("dots do not reference gradient-0")
	}
	if !strings.Contains(out, `<stop offset="100%" stop-color="#0000ff"/>`) {
		t.Errorf("missing end stop in %s", out[:200])
	}
}

func TestTransparentFillsAreSkipped(t *testing.T) {
	s := testScene(t, style.Config{Width: 210, Height: 210, Background: style.BackgroundConfig{Color: "transparent"}}, nil)
	doc := renderDoc(t, s, nil)
	if n := countRegion(doc, "background") + countRegion(doc, "canvas"); n != 0 {
		t.Errorf("transparent background elements = %d, want 0", n)
	}
	if bytes.Contains(doc.Bytes(), []byte("<defs")) {
		t.Errorf("empty defs written")
	}
}

func TestSemiTransparentColor(t *testing.T) {
	s := testScene(t, style.Config{Width: 210, Height: 210, Dots: style.DotsConfig{Color: "rgba(0, 0, 0, 0.5)"}}, nil)
	out := string(renderDoc(t, s, nil).Bytes())
	if !strings.Contains(out, `fill="#000000" fill-opacity="0.502"`) {
		t.Errorf("missing fill-opacity for translucent dots")
	}
}

func TestImageEmbedded(t *testing.T) {
	cfg := style.Config{Width: 210, Height: 210, QR: style.QRConfig{ErrorCorrectionLevel: "H"}}
	s := testScene(t, cfg, &layout.ImageSize{Width: 4, Height: 4})
	logo := image.NewRGBA(image.Rect(0, 0, 4, 4))
	out := string(renderDoc(t, s, logo).Bytes())
	if !strings.Contains(out, `<image href="data:image/png;base64,`) {
		t.Errorf("logo not embedded as png data url")
	}
	if strings.Count(out, "<image") != 1 {
		t.Errorf("want one image element")
	}
	out = string(renderDoc(t, s, nil).Bytes())
	if strings.Contains(out, "<image") {
		t.Errorf("image element written without a logo")
	}
}

func TestDocumentEscapesAttributes(t *testing.T) {
	doc := NewDocument(10, 10)
	doc.Append(El("text", "data-label", `a<b & "c"`))
	out := string(doc.Bytes())
	if !strings.Contains(out, `data-label="a&lt;b &amp; &#34;c&#34;"`) {
		t.Errorf("attribute not escaped: %s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 10 10"`) {
		t.Errorf("missing viewBox: %s", out)
	}
}
