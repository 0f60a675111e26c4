package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS-style color: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa", "rrggbb" without the hash, "rgb(r, g, b)", "rgba(r, g, b, a)",
// a CSS color name or "transparent".
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return color.NRGBA{}, fmt.Errorf("empty color")
	case v == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "rgb"):
		return parseFunctional(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}
	// Hex without the leading hash, as sent in query strings.
	if len(v) == 6 || len(v) == 8 {
		if c, err := parseHex(v); err == nil {
			return c, nil
		}
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (color.NRGBA, error) {
	var alpha string
	switch len(h) {
	case 3, 6:
	case 4:
		h, alpha = h[:3], strings.Repeat(h[3:], 2)
	case 8:
		h, alpha = h[:6], h[6:]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", "#"+h)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", "#"+h, err)
	}
	r, g, b := c.RGB255()
	out := color.NRGBA{R: r, G: g, B: b, A: 255}
	if alpha != "" {
		a, err := strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q", "#"+h+alpha)
		}
		out.A = uint8(a)
	}
	return out, nil
}

func parseFunctional(v string) (color.NRGBA, error) {
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", v)
	}
	name := strings.TrimSpace(v[:open])
	parts := strings.Split(v[open+1:end], ",")
	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return color.NRGBA{}, fmt.Errorf("unsupported color function %q", name)
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("%s() takes %d components, got %d", name, want, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		var f float64
		var err error
		if pct, ok := strings.CutSuffix(p, "%"); ok {
			f, err = strconv.ParseFloat(pct, 64)
			f = f * 255 / 100
		} else {
			f, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid component %q in %q", p, v)
		}
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, f))))
	}
	out := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q", v)
		}
		out.A = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	}
	return out, nil
}

// FormatColor renders c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
