package server

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/cwbudde/boostcascade/internal/detect"
	"github.com/cwbudde/boostcascade/internal/sample"
)

// loadGrayscaleImage decodes a PGM file (spec §6.2) into a row-major
// pixel grid suitable for internal/detect.Detect.
func loadGrayscaleImage(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	pixels, err := sample.LoadPGM(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PGM image: %w", err)
	}
	return pixels, nil
}

// renderDetections draws a grayscale source image as NRGBA with each
// detection's rectangle outlined in red, for the /detect endpoint's
// overlay response.
func renderDetections(pixels [][]float64, dets []detect.Detection) *image.NRGBA {
	h := len(pixels)
	w := 0
	if h > 0 {
		w = len(pixels[0])
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := pixels[y][x]
			switch {
			case v < 0:
				v = 0
			case v > 255:
				v = 255
			}
			g := uint8(v)
			out.Set(x, y, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}

	red := color.NRGBA{R: 255, A: 255}
	for _, d := range dets {
		drawRectOutline(out, d.Rect.StartX, d.Rect.StartY, d.Rect.Width, d.Rect.Height, red)
	}
	return out
}

// drawRectOutline draws a 1px rectangle border, clipped to img's bounds.
func drawRectOutline(img *image.NRGBA, x, y, w, h int, c color.NRGBA) {
	b := img.Bounds()
	setIfIn := func(px, py int) {
		if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
			img.Set(px, py, c)
		}
	}
	for px := x; px < x+w; px++ {
		setIfIn(px, y)
		setIfIn(px, y+h-1)
	}
	for py := y; py < y+h; py++ {
		setIfIn(x, py)
		setIfIn(x+w-1, py)
	}
}
