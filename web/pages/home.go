// Package pages holds the full HTML pages of the site.
package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/cristianadrielbraun/qrstyle/internal/geometry"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin/frame"
	"github.com/cristianadrielbraun/qrstyle/web/components"
)

const inputClass = "w-full rounded-md border border-gray-300 px-3 py-2 text-sm"

// HomePage renders the QR designer with the default preview.
func HomePage() templ.Component {
	return Home(components.DefaultPreview())
}

// Home renders the QR designer showing p.
func Home(p components.Preview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>QR Creator</title>` +
			`<link rel="stylesheet" href="/web/static/css/output.css">` +
			`<script src="/web/static/js/htmx.min.js" defer></script>` +
			`</head><body class="min-h-screen bg-gray-50 text-gray-900">`)
		b.WriteString(`<main class="mx-auto grid max-w-5xl gap-8 p-6 md:grid-cols-2">`)

		b.WriteString(`<form id="qr-form" class="flex flex-col gap-4" action="/api/qr" method="get" target="_blank">`)
		field(&b, "Content", fmt.Sprintf(`<input name="data" class="%s" value="%s">`, inputClass, templ.EscapeString(p.Data)))
		field(&b, "Dots", selectInput("dotType", p.DotType, geometry.DotTypes, ""))
		field(&b, "Color", fmt.Sprintf(`<input type="color" name="fg" class="%s" value="%s">`,
			twmerge.Merge(inputClass, "h-10 p-1"), templ.EscapeString(p.Color)))
		field(&b, "Frame", selectInput("cornerStyle", p.Frame, []string{"none", "square", "rounded"}, ""))
		field(&b, "Pattern", selectInput("borderPattern", p.Pattern, frame.Patterns, ""))
		field(&b, "Format", selectInput("format", p.Format, []string{"png", "jpg", "svg"}, ""))
		b.WriteString(`<input type="hidden" name="size" value="download">`)
		fmt.Fprintf(&b, `<button type="submit" class="%s">Download</button>`,
			twmerge.Merge("rounded-md px-4 py-2 font-medium", "bg-gray-900 text-white hover:bg-gray-700"))
		b.WriteString(`</form>`)

		fmt.Fprintf(&b, `<section class="flex items-center justify-center"><img id="qr-preview" alt="QR code preview" width="%d" height="%d" src="%s"></section>`,
			p.ImageSize, p.ImageSize, templ.EscapeString(p.URL()))
		b.WriteString(`</main><div id="toasts"></div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func field(b *strings.Builder, label, input string) {
	fmt.Fprintf(b, `<label class="flex flex-col gap-1 text-sm font-medium">%s%s</label>`, templ.EscapeString(label), input)
}

func selectInput[T ~string](name, selected string, values []T, class string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<select name="%s" class="%s">`, name, twmerge.Merge(inputClass, class))
	for _, v := range values {
		sel := ""
		if string(v) == selected {
			sel = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, v, sel, v)
	}
	b.WriteString(`</select>`)
	return b.String()
}
