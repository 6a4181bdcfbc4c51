package sample

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	ximagedraw "golang.org/x/image/draw"

	"github.com/cwbudde/boostcascade/internal/geom"
)

// CropResize crops pixels to rect, then resamples the crop to an s×s
// grid via a Catmull-Rom kernel (spec §4.10 step 1: "crop each positive
// by its rectangle, resize to S×S").
func CropResize(pixels [][]float64, rect geom.Rect, s int) ([][]float64, error) {
	if s <= 0 {
		return nil, fmt.Errorf("sample: target size must be positive, got %d", s)
	}
	h := len(pixels)
	if h == 0 {
		return nil, fmt.Errorf("sample: empty source image")
	}
	w := len(pixels[0])
	if rect.StartX < 0 || rect.StartY < 0 || rect.Width <= 0 || rect.Height <= 0 ||
		rect.StartX+rect.Width > w || rect.StartY+rect.Height > h {
		return nil, fmt.Errorf("sample: rect %+v out of bounds for %dx%d image", rect, w, h)
	}

	src := image.NewGray(image.Rect(0, 0, rect.Width, rect.Height))
	for y := 0; y < rect.Height; y++ {
		for x := 0; x < rect.Width; x++ {
			src.SetGray(x, y, grayOf(pixels[rect.StartY+y][rect.StartX+x]))
		}
	}

	dst := image.NewGray(image.Rect(0, 0, s, s))
	ximagedraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([][]float64, s)
	for y := 0; y < s; y++ {
		out[y] = make([]float64, s)
		for x := 0; x < s; x++ {
			out[y][x] = float64(dst.GrayAt(x, y).Y)
		}
	}
	return out, nil
}

func grayOf(v float64) color.Gray {
	switch {
	case v < 0:
		v = 0
	case v > 255:
		v = 255
	}
	return color.Gray{Y: uint8(v)}
}
