package stump

import (
	"math"

	"github.com/cwbudde/boostcascade/internal/config"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/opt"
)

// haarPenalty is returned for descriptors decoded outside the window-
// bounds invariant; Z is bounded in [0, 1] (each side's sqrt(a*b) term is
// at most 0.5 since the two masses on a side sum to at most 1), so 2.0
// is worse than any real split.
const haarPenalty = 2.0

// encodeHaarBounds returns the (lower, upper) vector the GA search
// optimizes over: five fields (type, startX, startY, width, height)
// sharing one scalar range, because the wired optimizer (internal/opt)
// exposes a single global [lower, upper] box rather than per-dimension
// bounds. Decoding clamps each field to its own legal range.
func encodeHaarBounds(winH, winW int) (lower, upper []float64) {
	bound := float64(winW)
	if winH > bound {
		bound = float64(winH)
	}
	if bound < 4 {
		bound = 4
	}
	lower = make([]float64, 5)
	upper = make([]float64, 5)
	for i := range upper {
		upper[i] = bound
	}
	return lower, upper
}

func clampInt(v float64, lo, hi int) int {
	i := int(math.Round(v))
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func decodeHaarDescriptor(pos []float64, winH, winW int) numeric.HaarFeature {
	return numeric.HaarFeature{
		Type:   numeric.HaarType(clampInt(pos[0], 0, 3)),
		StartX: clampInt(pos[1], 0, winW-1),
		StartY: clampInt(pos[2], 0, winH-1),
		Width:  clampInt(pos[3], 1, winW),
		Height: clampInt(pos[4], 1, winH),
	}
}

// TrainHaarStumpGA searches for a good Haar descriptor by evolving a
// population of descriptors against the Z-value fitness of their
// optimal continuous split (spec §4.5 genetic-algorithm strategy). The
// population/generation loop itself is delegated to the wired
// evolutionary optimizer (internal/opt, backed by github.com/cwbudde/mayfly)
// rather than hand-rolled crossover/mutation/tournament — see DESIGN.md
// for why: the spec's GA is one instance of "evolve a population
// against a scalar objective," which is exactly what the optimizer
// already does. The optimizer's own best-ever-individual tracking
// satisfies "best-ever descriptor is tracked across all generations."
func TrainHaarStumpGA(samples []HaarSample, weights []float64, winH, winW int, kind Kind, confidence bool, gaCfg config.GAConfig, optimizer opt.Optimizer) (*HaarStump, float64, error) {
	if len(samples) == 0 {
		return nil, 0, ErrNoSamples
	}

	objective := func(pos []float64) float64 {
		desc := decodeHaarDescriptor(pos, winH, winW)
		if !desc.Valid(1, winH, winW) {
			return haarPenalty
		}
		vals := evaluateHaarValues(desc, samples, winH, winW)
		for i := range vals {
			vals[i].Weight = weights[i]
		}
		var z float64
		var err error
		switch kind {
		case KindDiscrete:
			_, z, err = TrainDiscrete(vals, confidence)
		default:
			_, z, err = TrainContinuousSorted(vals, confidence, 0)
		}
		if err != nil {
			return haarPenalty
		}
		return z
	}

	if tunable, ok := optimizer.(opt.Tunable); ok {
		optimizer = tunable.WithBudget(gaCfg.Generations, gaCfg.PopSize)
	}

	lower, upper := encodeHaarBounds(winH, winW)
	bestPos, bestZ := optimizer.Run(objective, lower, upper, 5)
	if bestZ >= haarPenalty {
		return nil, 0, ErrNoValidDescriptor
	}

	bestDesc := decodeHaarDescriptor(bestPos, winH, winW)
	vals := evaluateHaarValues(bestDesc, samples, winH, winW)
	for i := range vals {
		vals[i].Weight = weights[i]
	}

	var body Body
	var err error
	switch kind {
	case KindDiscrete:
		body, _, err = TrainDiscrete(vals, confidence)
	default:
		body, _, err = TrainContinuousSorted(vals, confidence, 0)
	}
	if err != nil {
		return nil, 0, err
	}

	return &HaarStump{Descriptor: bestDesc, Body: body}, bestZ, nil
}
