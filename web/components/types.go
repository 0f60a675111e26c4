package components

import (
	"net/url"
	"strconv"
)

// Preview is the state of the QR preview on the home page.
type Preview struct {
	Data      string
	Format    string
	DotType   string
	Color     string
	Frame     string
	Pattern   string
	ImageSize int
}

// DefaultPreview is what the home page shows before the user types anything.
func DefaultPreview() Preview {
	return Preview{
		Data:      "https://qrcreator.link",
		Format:    "png",
		DotType:   "rounded",
		Color:     "#000000",
		Frame:     "none",
		Pattern:   "simple",
		ImageSize: 336,
	}
}

// URL returns the API request that renders p.
func (p Preview) URL() string {
	q := url.Values{}
	q.Set("data", p.Data)
	q.Set("format", p.Format)
	q.Set("dotType", p.DotType)
	q.Set("fg", p.Color)
	q.Set("cornerStyle", p.Frame)
	q.Set("borderPattern", p.Pattern)
	if p.ImageSize > 0 {
		q.Set("previewSize", strconv.Itoa(p.ImageSize))
	}
	return "/api/qr?" + q.Encode()
}
