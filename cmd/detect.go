package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/detect"
	"github.com/cwbudde/boostcascade/internal/sample"
	"github.com/cwbudde/boostcascade/internal/stump"
	"github.com/spf13/cobra"
)

var (
	detectCascadePath string
	detectImagePath   string
	detectKind        string
	detectConfidence  bool
	detectStep        int
	detectScaleStep   float64
	detectNMS         float64
	detectOverlayOut  string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan an image with a trained cascade",
	Long:  `Runs a sliding-window multi-scale scan over a PGM image with a trained cascade artifact and reports accepted windows.`,
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectCascadePath, "cascade", "", "Trained cascade artifact path (required)")
	detectCmd.Flags().StringVar(&detectImagePath, "image", "", "PGM image to scan (required)")
	detectCmd.Flags().StringVar(&detectKind, "kind", "continuous", "Stump kind the cascade was trained with: continuous or discrete")
	detectCmd.Flags().BoolVar(&detectConfidence, "confidence", false, "Cascade was trained with confidence-rated stumps")
	detectCmd.Flags().IntVar(&detectStep, "step", 2, "Sliding-window stride")
	detectCmd.Flags().Float64Var(&detectScaleStep, "scale-step", 1.25, "Window scale growth per pass")
	detectCmd.Flags().Float64Var(&detectNMS, "nms-threshold", 0.1, "IoU threshold for non-maximum suppression")
	detectCmd.Flags().StringVar(&detectOverlayOut, "overlay", "", "Write a PNG with detections outlined to this path")
	detectCmd.MarkFlagRequired("cascade")
	detectCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	kind := stump.KindContinuous
	if detectKind == "discrete" {
		kind = stump.KindDiscrete
	}

	artifact, err := os.Open(detectCascadePath)
	if err != nil {
		return fmt.Errorf("failed to open cascade artifact: %w", err)
	}
	defer artifact.Close()

	trained, err := cascade.ReadCascade(artifact, kind, detectConfidence)
	if err != nil {
		return fmt.Errorf("failed to decode cascade artifact: %w", err)
	}

	imgFile, err := os.Open(detectImagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer imgFile.Close()

	pixels, err := sample.LoadPGM(imgFile)
	if err != nil {
		return fmt.Errorf("failed to decode PGM image: %w", err)
	}

	cfg := detect.DefaultConfig()
	cfg.Step = detectStep
	cfg.ScaleStep = detectScaleStep
	cfg.NMSThreshold = detectNMS

	dets, err := detect.Detect(trained, pixels, cfg)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dets); err != nil {
		return fmt.Errorf("failed to encode detections: %w", err)
	}

	if detectOverlayOut != "" {
		out, err := os.Create(detectOverlayOut)
		if err != nil {
			return fmt.Errorf("failed to create overlay output: %w", err)
		}
		defer out.Close()
		if err := png.Encode(out, renderDetections(pixels, dets)); err != nil {
			return fmt.Errorf("failed to write overlay PNG: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote overlay to %s\n", detectOverlayOut)
	}

	fmt.Fprintf(os.Stderr, "%d detection(s)\n", len(dets))
	return nil
}

// renderDetections draws a grayscale source image as NRGBA with each
// detection's rectangle outlined in red, matching the server's
// /api/v1/detect overlay response.
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
