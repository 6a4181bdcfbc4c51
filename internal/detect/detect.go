package detect

import (
	"fmt"
	"sort"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/geom"
	"github.com/cwbudde/boostcascade/internal/numeric"
)

// Detection is one accepted window: its rectangle in image coordinates
// plus the last stage's score as a confidence value (spec §4.11).
type Detection struct {
	Rect       geom.Rect
	Confidence float64
}

// Config tunes the sliding-window scan (spec §4.11).
type Config struct {
	// Step is the pixel stride Δ between window positions.
	Step int
	// ScaleStep is the multiplier applied to the window size after
	// every full pass over the image (the spec's default is 1.25).
	ScaleStep float64
	// NMSThreshold is the IoU above which a lower-confidence detection
	// is suppressed by a higher-confidence one (the spec's default is
	// 0.1).
	NMSThreshold float64
}

// DefaultConfig returns the spec's default scan tuning.
func DefaultConfig() Config {
	return Config{Step: 2, ScaleStep: 1.25, NMSThreshold: 0.1}
}

// Detect scans pixels with c, building its (S, S2) integral-image pair
// once and reusing it across every scan position and scale (spec
// §4.11), then applies non-maximum suppression to the raw hits.
func Detect(c *cascade.Cascade, pixels [][]float64, cfg Config) ([]Detection, error) {
	if c == nil || len(c.Stages) == 0 {
		return nil, fmt.Errorf("detect: cascade has no trained stages")
	}
	if c.ImageSize <= 0 {
		return nil, fmt.Errorf("detect: cascade has invalid ImageSize %d", c.ImageSize)
	}

	g := numeric.Grid(pixels)
	s1, err := numeric.BuildIntegral(g)
	if err != nil {
		return nil, fmt.Errorf("detect: build integral: %w", err)
	}
	s2, err := numeric.BuildSquaredIntegral(g)
	if err != nil {
		return nil, fmt.Errorf("detect: build squared integral: %w", err)
	}

	step := cfg.Step
	if step <= 0 {
		step = 2
	}
	scaleStep := cfg.ScaleStep
	if scaleStep <= 1 {
		scaleStep = 1.25
	}

	var hits []Detection
	numeric.Scan(s1, c.ImageSize, c.ImageSize, step, scaleStep, func(win numeric.Window, scale float64) bool {
		if c.Accept(s1, s2, win, scale) {
			hits = append(hits, Detection{
				Rect: geom.Rect{
					StartX: win.OriginX, StartY: win.OriginY,
					Width: win.Width, Height: win.Height,
				},
				Confidence: c.Score(s1, s2, win, scale),
			})
		}
		return true
	})

	threshold := cfg.NMSThreshold
	if threshold <= 0 {
		threshold = 0.1
	}
	return suppress(hits, threshold), nil
}

// suppress implements non-maximum suppression (spec §4.11): repeatedly
// take the highest-confidence surviving rectangle, accept it, and drop
// every remaining rectangle whose IoU against it exceeds threshold.
func suppress(hits []Detection, threshold float64) []Detection {
	if len(hits) == 0 {
		return nil
	}
	remaining := append([]Detection{}, hits...)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].Confidence > remaining[j].Confidence })

	var accepted []Detection
	for len(remaining) > 0 {
		best := remaining[0]
		accepted = append(accepted, best)
		rest := remaining[1:]
		kept := rest[:0]
		for _, d := range rest {
			if geom.IoU(best.Rect, d.Rect) <= threshold {
				kept = append(kept, d)
			}
		}
		remaining = kept
	}
	return accepted
}
