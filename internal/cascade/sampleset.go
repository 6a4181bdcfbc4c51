package cascade

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/geom"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/sample"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// maxNegativeCropAttempts bounds the retry loop used to find a random
// negative crop that clears the IoU≤0.3 constraint against any face
// box recorded on the source image.
const maxNegativeCropAttempts = 50

// buildHaarSample crops+resizes raw pixels at rect to s×s and computes
// its (S, S2) integral-image pair (spec §4.10 step 1).
func buildHaarSample(pixels [][]float64, rect geom.Rect, s int, label float64) (stump.HaarSample, error) {
	crop, err := sample.CropResize(pixels, rect, s)
	if err != nil {
		return stump.HaarSample{}, err
	}
	g := numeric.Grid(crop)
	s1, err := numeric.BuildIntegral(g)
	if err != nil {
		return stump.HaarSample{}, fmt.Errorf("cascade: build integral: %w", err)
	}
	s2, err := numeric.BuildSquaredIntegral(g)
	if err != nil {
		return stump.HaarSample{}, fmt.Errorf("cascade: build squared integral: %w", err)
	}
	return stump.HaarSample{S: s1, S2: s2, Label: label}, nil
}

// randomCropRect picks a uniformly random s×s window inside an h×w
// image, retrying (up to maxNegativeCropAttempts times) until it
// clears IoU≤0.3 against every rect in avoid.
func randomCropRect(rng *rand.Rand, h, w, s int, avoid []Rect) (Rect, bool) {
	if h < s || w < s {
		return Rect{}, false
	}
	for attempt := 0; attempt < maxNegativeCropAttempts; attempt++ {
		y := 0
		x := 0
		if h > s {
			y = rng.Intn(h - s + 1)
		}
		if w > s {
			x = rng.Intn(w - s + 1)
		}
		rect := Rect{StartX: x, StartY: y, Width: s, Height: s}
		clear := true
		for _, a := range avoid {
			if geom.IoU(rect, a) > 0.3 {
				clear = false
				break
			}
		}
		if clear {
			return rect, true
		}
	}
	return Rect{}, false
}

// buildInitialSamples implements spec §4.10 step 1: it draws pTarget
// positives from pos (cropped+resized to s×s) and nTarget negatives
// from neg (one random s×s crop per background image), shuffles the
// combined set, and returns it.
func buildInitialSamples(pos PositiveSource, neg NegativeSource, pTarget, nTarget, s int, rng *rand.Rand) ([]stump.HaarSample, error) {
	samples := make([]stump.HaarSample, 0, pTarget+nTarget)

	anyPositive := false
	for i := 0; i < pTarget; i++ {
		p, ok, err := pos()
		if err != nil {
			return nil, fmt.Errorf("cascade: positive source: %w", err)
		}
		if !ok {
			if !anyPositive {
				return nil, ErrNoPositives
			}
			break
		}
		anyPositive = true
		hs, err := buildHaarSample(p.Pixels, p.Rect, s, 1)
		if err != nil {
			return nil, err
		}
		samples = append(samples, hs)
	}
	if !anyPositive {
		return nil, ErrNoPositives
	}

	anyNegative := false
	for i := 0; i < nTarget; i++ {
		img, ok, err := neg()
		if err != nil {
			return nil, fmt.Errorf("cascade: negative source: %w", err)
		}
		if !ok {
			if !anyNegative {
				return nil, ErrNegativesExhausted
			}
			break
		}
		h := len(img.Pixels)
		w := 0
		if h > 0 {
			w = len(img.Pixels[0])
		}
		rect, ok := randomCropRect(rng, h, w, s, img.FaceRects)
		if !ok {
			continue
		}
		hs, err := buildHaarSample(img.Pixels, rect, s, -1)
		if err != nil {
			return nil, err
		}
		samples = append(samples, hs)
		anyNegative = true
	}
	if !anyNegative {
		return nil, ErrNegativesExhausted
	}

	rng.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })
	return samples, nil
}

// splitTrainVal partitions samples in place (spec §9 design note: the
// cascade's swap-based in-place partitioning is preserved rather than
// reallocating train/validation slices) into a training prefix of
// length ⌊pTrain·m⌋ (clamped to [1, m−1]) and a validation suffix.
func splitTrainVal(samples []stump.HaarSample, pTrain float64) (train, val []stump.HaarSample) {
	m := len(samples)
	cut := int(float64(m) * pTrain)
	if cut < 1 {
		cut = 1
	}
	if cut > m-1 {
		cut = m - 1
	}
	return samples[:cut], samples[cut:]
}
