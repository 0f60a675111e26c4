package svg

import (
	"image"
	"image/color"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/gradient"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// Renderer writes scenes into a document. Each instruction becomes one
// element; gradients are written once to defs and referenced by id.
type Renderer struct {
	doc       *Document
	gradients map[string]string
}

// NewRenderer returns a renderer drawing into doc.
func NewRenderer(doc *Document) *Renderer {
	return &Renderer{doc: doc, gradients: make(map[string]string)}
}

// Document returns the target document.
func (r *Renderer) Document() *Document { return r.doc }

// Render appends the scene to the document. logo is drawn into the image
// instruction's rectangle; a nil logo leaves it empty.
func (r *Renderer) Render(scene *layout.Scene, logo image.Image) error {
	if r.doc == nil {
		return qrerrors.New(qrerrors.ErrCodeRender, "no document to draw into")
	}
	for _, in := range scene.Instructions {
		if in.Region == layout.RegionImage {
			if logo == nil {
				continue
			}
			el, err := imageElement(in, logo)
			if err != nil {
				return err
			}
			r.doc.Append(el)
			continue
		}
		if in.Fill.Transparent() {
			continue
		}
		el := shapeElement(in)
		r.Paint(el, in.Fill)
		el.Set("data-region", string(in.Region))
		r.doc.Append(el)
	}
	return nil
}

func shapeElement(in layout.Instruction) *Element {
	f := geometry.FormatNumber
	switch in.Kind {
	case geometry.KindSquare:
		return El("rect", "x", f(in.X), "y", f(in.Y), "width", f(in.W), "height", f(in.H))
	case geometry.KindCircle:
		return El("circle", "cx", f(in.X+in.W/2), "cy", f(in.Y+in.H/2), "r", f(in.W/2))
	default:
		el := El("path", "d", in.Path.SVG())
		if in.EvenOdd {
			el.Set("fill-rule", "evenodd")
		}
		return el
	}
}

// Paint sets el's fill, defining the gradient first when fill has one.
func (r *Renderer) Paint(el *Element, fill gradient.Fill) {
	if fill.Gradient == nil {
		el.Set("fill", solid(fill.Color))
		if fill.Color.A < 255 {
			el.Set("fill-opacity", opacity(fill.Color.A))
		}
		return
	}
	el.Set("fill", "url(#"+r.define(fill.Gradient)+")")
}

// define writes g to defs unless an identical gradient is already there and
// returns its id.
func (r *Renderer) define(g *gradient.Resolved) string {
	key := g.Key()
	if id, ok := r.gradients[key]; ok {
		return id
	}
	id := r.doc.NewID("gradient")
	r.gradients[key] = id

	f := geometry.FormatNumber
	var el *Element
	if g.Type == gradient.Radial {
		el = El("radialGradient", "id", id, "gradientUnits", "userSpaceOnUse",
			"fx", f(g.CX), "fy", f(g.CY), "cx", f(g.CX), "cy", f(g.CY), "r", f(g.R))
	} else {
		el = El("linearGradient", "id", id, "gradientUnits", "userSpaceOnUse",
			"x1", f(g.X1), "y1", f(g.Y1), "x2", f(g.X2), "y2", f(g.Y2))
	}
	for _, s := range g.Stops {
		stop := El("stop", "offset", f(100*s.Offset)+"%", "stop-color", solid(s.Color))
		if s.Color.A < 255 {
			stop.Set("stop-opacity", opacity(s.Color.A))
		}
		el.Append(stop)
	}
	r.doc.Define(el)
	return id
}

func imageElement(in layout.Instruction, logo image.Image) (*Element, error) {
	data, err := render.EncodeImage(logo, render.PNG)
	if err != nil {
		return nil, err
	}
	f := geometry.FormatNumber
	return El("image",
		"href", render.DataURL(render.PNG.MIME(), data),
		"x", f(in.X), "y", f(in.Y), "width", f(in.W), "height", f(in.H),
	), nil
}

func solid(c color.NRGBA) string {
	return style.FormatColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

func opacity(a uint8) string {
	return geometry.FormatNumber(float64(a) / 255)
}
