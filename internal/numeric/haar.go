package numeric

import "math"

// HaarType enumerates the four rectangle-tiling patterns a Haar feature
// can take (spec §3).
type HaarType int

const (
	TwoHorizontal  HaarType = iota // 2 columns x 1 row
	TwoVertical                    // 1 column x 2 rows
	ThreeHorizontal                // 3 columns x 1 row
	FourQuad                       // 2 columns x 2 rows
)

// cols/rows returns how many cell-widths/heights the descriptor spans.
func (t HaarType) cols() int {
	switch t {
	case TwoHorizontal, FourQuad:
		return 2
	case ThreeHorizontal:
		return 3
	default:
		return 1
	}
}

func (t HaarType) rows() int {
	switch t {
	case TwoVertical, FourQuad:
		return 2
	default:
		return 1
	}
}

// HaarFeature describes one Haar-rectangle feature: a type plus the
// top-left cell origin and cell size, all in unscaled (base) units
// (spec §3).
type HaarFeature struct {
	Type   HaarType
	StartX int
	StartY int
	Width  int
	Height int
}

// Valid reports whether the descriptor, scaled by s, fits inside a window
// of height h and width w (spec §3 invariant):
//
//	start_x + cols*width*s < w  AND  start_y + rows*height*s < h
func (f HaarFeature) Valid(s float64, h, w int) bool {
	cols := float64(f.Type.cols())
	rows := float64(f.Type.rows())
	maxX := float64(f.StartX) + cols*float64(f.Width)*s
	maxY := float64(f.StartY) + rows*float64(f.Height)*s
	return maxX < float64(w) && maxY < float64(h)
}

// Window locates the rectangle a Haar feature is evaluated against
// within a possibly larger integral image: (OriginY, OriginX) is the
// window's top-left corner in the full image, (Height, Width) its
// extent. A training sample's own (S, S2) pair uses the zero-origin
// window covering the whole sample; the detector (internal/detect)
// reuses one full-image integral image across every scan position and
// scale by varying Window instead of recomputing S/S2 per window.
type Window struct {
	OriginY, OriginX int
	Height, Width    int
}

// rectSumScaled sums the original-grid values of the rectangle with
// top-left (x,y) and size (width,height) in cell units, scaled by s and
// offset by the window's origin, using the integral image S.
func rectSumScaled(s Grid, win Window, x, y, width, height int, scale float64) float64 {
	x0 := win.OriginX + int(math.Round(float64(x)*scale))
	y0 := win.OriginY + int(math.Round(float64(y)*scale))
	x1 := win.OriginX + int(math.Round(float64(x+width)*scale))
	y1 := win.OriginY + int(math.Round(float64(y+height)*scale))
	return s.RectSum(y0, x0, y1, x1)
}

// HaarValue computes the variance-normalized Haar feature value for
// descriptor f scaled by s, over win within integral images s1 (pixels)
// and s2 (squared pixels) — spec §4.1.
//
// Returns 0 for a constant-variance (degenerate) patch: there is no
// feature to extract from a flat window, and the spec explicitly treats
// that as "no feature" rather than a division-by-zero error.
func HaarValue(f HaarFeature, scale float64, s1, s2 Grid, win Window) float64 {
	h, w := win.Height, win.Width
	n := float64((h - 1) * (w - 1))
	if n <= 0 {
		return 0
	}

	total1 := s1.RectSum(win.OriginY, win.OriginX, win.OriginY+h, win.OriginX+w)
	total2 := s2.RectSum(win.OriginY, win.OriginX, win.OriginY+h, win.OriginX+w)
	mu := total1 / n
	variance := total2/n - mu*mu
	if variance <= 0 {
		return 0
	}
	sigma := math.Sqrt(variance)

	cw, ch := f.Width, f.Height
	var raw float64
	switch f.Type {
	case TwoHorizontal:
		left := rectSumScaled(s1, win, f.StartX, f.StartY, cw, ch, scale)
		right := rectSumScaled(s1, win, f.StartX+cw, f.StartY, cw, ch, scale)
		raw = right - left
	case TwoVertical:
		top := rectSumScaled(s1, win, f.StartX, f.StartY, cw, ch, scale)
		bottom := rectSumScaled(s1, win, f.StartX, f.StartY+ch, cw, ch, scale)
		raw = top - bottom
	case ThreeHorizontal:
		left := rectSumScaled(s1, win, f.StartX, f.StartY, cw, ch, scale)
		middle := rectSumScaled(s1, win, f.StartX+cw, f.StartY, cw, ch, scale)
		right := rectSumScaled(s1, win, f.StartX+2*cw, f.StartY, cw, ch, scale)
		raw = 2*middle - left - right
	case FourQuad:
		tl := rectSumScaled(s1, win, f.StartX, f.StartY, cw, ch, scale)
		tr := rectSumScaled(s1, win, f.StartX+cw, f.StartY, cw, ch, scale)
		bl := rectSumScaled(s1, win, f.StartX, f.StartY+ch, cw, ch, scale)
		br := rectSumScaled(s1, win, f.StartX+cw, f.StartY+ch, cw, ch, scale)
		raw = (tl + br) - (tr + bl)
	}

	return raw / (sigma * scale * scale)
}

// WholeGridWindow returns the zero-origin Window covering an h×w grid —
// the common case for a training sample's own integral image.
func WholeGridWindow(h, w int) Window {
	return Window{Height: h, Width: w}
}
