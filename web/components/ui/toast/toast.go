// Package toast renders the notification toasts swapped in by HTMX.
package toast

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomCenter Position = "bottom-center"
)

// Props configures a toast. Duration is in milliseconds; 0 keeps the toast
// until it is dismissed.
type Props struct {
	ID            string
	Class         string
	Title         string
	Description   string
	Variant       Variant
	Position      Position
	Duration      int
	Dismissible   bool
	ShowIndicator bool
	Icon          bool
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-border bg-popover text-popover-foreground",
	VariantSuccess: "border-green-500 bg-green-50 text-green-900",
	VariantError:   "border-red-500 bg-red-50 text-red-900",
	VariantWarning: "border-amber-500 bg-amber-50 text-amber-900",
	VariantInfo:    "border-blue-500 bg-blue-50 text-blue-900",
}

var positionClasses = map[Position]string{
	PositionTopRight:     "top-4 right-4",
	PositionTopLeft:      "top-4 left-4",
	PositionBottomRight:  "bottom-4 right-4",
	PositionBottomLeft:   "bottom-4 left-4",
	PositionTopCenter:    "top-4 left-1/2 -translate-x-1/2",
	PositionBottomCenter: "bottom-4 left-1/2 -translate-x-1/2",
}

var icons = map[Variant]string{
	VariantSuccess: "&#10003;",
	VariantError:   "&#10005;",
	VariantWarning: "!",
	VariantInfo:    "i",
}

// Classes returns the merged class list of the toast container. Classes in
// p.Class win over the defaults.
func Classes(p Props) string {
	variant, ok := variantClasses[p.Variant]
	if !ok {
		variant = variantClasses[VariantDefault]
	}
	position, ok := positionClasses[p.Position]
	if !ok {
		position = positionClasses[PositionBottomRight]
	}
	return twmerge.Merge(
		"fixed z-50 flex w-full max-w-sm items-start gap-3 rounded-lg border p-4 shadow-lg",
		variant,
		position,
		p.Class,
	)
}

// Toast renders p.
func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div role="status" data-toast`)
		if p.ID != "" {
			fmt.Fprintf(&b, ` id="%s"`, templ.EscapeString(p.ID))
		}
		fmt.Fprintf(&b, ` class="%s" data-duration="%d">`, templ.EscapeString(Classes(p)), p.Duration)
		if p.Icon {
			if icon, ok := icons[p.Variant]; ok {
				fmt.Fprintf(&b, `<span class="font-bold" aria-hidden="true">%s</span>`, icon)
			}
		}
		b.WriteString(`<div class="flex-1">`)
		if p.Title != "" {
			fmt.Fprintf(&b, `<p class="font-semibold">%s</p>`, templ.EscapeString(p.Title))
		}
		if p.Description != "" {
			fmt.Fprintf(&b, `<p class="text-sm opacity-90">%s</p>`, templ.EscapeString(p.Description))
		}
		b.WriteString(`</div>`)
		if p.Dismissible {
			b.WriteString(`<button type="button" class="opacity-70 hover:opacity-100" aria-label="Close" data-toast-dismiss>&times;</button>`)
		}
		if p.ShowIndicator && p.Duration > 0 {
			fmt.Fprintf(&b, `<div class="absolute bottom-0 left-0 h-1 w-full bg-current opacity-20" style="animation: toast-progress %dms linear forwards"></div>`, p.Duration)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
