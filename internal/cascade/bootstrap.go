package cascade

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// AcceptFunc reports whether a cumulative cascade-so-far would accept
// the window (s, s2, win) at the given scale — exactly the signature
// of (*classifier.HaarBooster).Accept chained across stages, kept as a
// function type here so this package doesn't need to import
// internal/classifier just to describe it.
type AcceptFunc func(s, s2 numeric.Grid, win numeric.Window, scale float64) bool

// Bootstrapper performs the hard-negative mining of spec §4.10 step
// 2d, generalizing the original's pretrain.c free-function sampling
// helper into an explicit type.
type Bootstrapper struct {
	Neg       NegativeSource
	WinSize   int
	Step      int
	ScaleStep float64
}

// Refill drops every negative in existing that the current cascade
// already rejects, then tops the survivors back up to quota by
// scanning fresh background images for windows the cascade still
// accepts (i.e. still-hard false positives), per spec §4.10 step 2d.
// It returns ErrNegativesExhausted if the image stream cycles without
// ever reaching quota and no hard negative was found at all.
func (b *Bootstrapper) Refill(existing []stump.HaarSample, accept AcceptFunc, quota int, rng *rand.Rand) ([]stump.HaarSample, error) {
	win := numeric.WholeGridWindow(b.WinSize, b.WinSize)

	kept := make([]stump.HaarSample, 0, len(existing))
	for _, s := range existing {
		if accept(s.S, s.S2, win, 1) {
			kept = append(kept, s)
		}
	}
	if len(kept) >= quota {
		return kept[:quota], nil
	}

	step := b.Step
	if step <= 0 {
		step = 2
	}
	scaleStep := b.ScaleStep
	if scaleStep <= 1 {
		scaleStep = 1.25
	}

	firstID := ""
	sawFirst := false
	foundAny := len(kept) > 0
	for len(kept) < quota {
		img, ok, err := b.Neg()
		if err != nil {
			return nil, fmt.Errorf("cascade: negative source during bootstrap: %w", err)
		}
		if !ok {
			break
		}
		if !sawFirst {
			firstID = img.ID
			sawFirst = true
		} else if img.ID == firstID {
			// The stream has cycled back to its first image without
			// meeting quota.
			break
		}

		g := numeric.Grid(img.Pixels)
		s1, err := numeric.BuildIntegral(g)
		if err != nil {
			return nil, fmt.Errorf("cascade: build integral during bootstrap: %w", err)
		}
		s2, err := numeric.BuildSquaredIntegral(g)
		if err != nil {
			return nil, fmt.Errorf("cascade: build squared integral during bootstrap: %w", err)
		}

		numeric.Scan(s1, b.WinSize, b.WinSize, step, scaleStep, func(w numeric.Window, scale float64) bool {
			if !accept(s1, s2, w, scale) {
				return len(kept) < quota
			}
			rect := Rect{StartX: w.OriginX, StartY: w.OriginY, Width: w.Width, Height: w.Height}
			hs, err := buildHaarSample(img.Pixels, rect, b.WinSize, -1)
			if err != nil {
				return len(kept) < quota
			}
			kept = append(kept, hs)
			foundAny = true
			return len(kept) < quota
		})
	}

	if !foundAny {
		return nil, ErrNegativesExhausted
	}
	rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
	return kept, nil
}
