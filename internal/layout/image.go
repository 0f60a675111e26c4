package layout

import "math"

type imageFit struct {
	width, height float64
	hideX, hideY  int
}

// imageBox sizes the image reservation: an odd number of modules on each
// axis, following the image aspect ratio, hiding at most maxHidden modules
// and at most maxAxis modules per axis.
func imageBox(img ImageSize, maxHidden, maxAxis int, dot float64) imageFit {
	if img.Width <= 0 || img.Height <= 0 || maxHidden <= 0 || dot <= 0 {
		return imageFit{}
	}
	k := float64(img.Height) / float64(img.Width)

	hideX := int(math.Floor(math.Sqrt(float64(maxHidden) / k)))
	if hideX <= 0 {
		hideX = 1
	}
	if maxAxis > 0 && maxAxis < hideX {
		hideX = maxAxis
	}
	if hideX%2 == 0 {
		hideX--
	}
	width := float64(hideX) * dot
	hideY := 1 + 2*int(math.Ceil((float64(hideX)*k-1)/2))
	height := math.Round(width * k)

	if hideY*hideX > maxHidden || (maxAxis > 0 && maxAxis < hideY) {
		if maxAxis > 0 && maxAxis < hideY {
			hideY = maxAxis
			if hideY%2 == 0 {
				hideY--
			}
		} else {
			hideY -= 2
		}
		height = float64(hideY) * dot
		hideX = 1 + 2*int(math.Ceil((float64(hideY)/k-1)/2))
		width = math.Round(height / k)
	}
	if hideX <= 0 || hideY <= 0 {
		return imageFit{}
	}
	return imageFit{width: width, height: height, hideX: hideX, hideY: hideY}
}
