package stump

import (
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/numeric"
)

// HaarSample is one image sample's integral images plus its label, the
// input to Haar-feature training (spec §3).
type HaarSample struct {
	S, S2 numeric.Grid
	Label float64
}

// HaarStump is a weak learner over a Haar-rectangle feature (spec §3):
// it evaluates the descriptor (at scale 1, the training window's own
// size) and delegates classification to a Body.
type HaarStump struct {
	Descriptor numeric.HaarFeature
	Body       Body
}

func (h *HaarStump) Eval(s, s2 numeric.Grid, win numeric.Window, scale float64) float64 {
	return h.Body.Eval(numeric.HaarValue(h.Descriptor, scale, s, s2, win))
}

func (h *HaarStump) IsConfidence() bool { return h.Body.IsConfidence() }

func evaluateHaarValues(desc numeric.HaarFeature, samples []HaarSample, winH, winW int) []LabeledValue {
	out := make([]LabeledValue, len(samples))
	win := numeric.WholeGridWindow(winH, winW)
	for i, s := range samples {
		out[i] = LabeledValue{
			Value:  numeric.HaarValue(desc, 1, s.S, s.S2, win),
			Label:  s.Label,
			Weight: 0, // filled by caller with D before training
		}
	}
	return out
}

// TrainHaarStumpExhaustive enumerates every valid Haar descriptor over a
// winH x winW window (spec §4.5 exhaustive strategy) and, for each,
// materializes the per-sample feature values and invokes the continuous
// (or discrete) stump search, keeping the descriptor with the smallest
// Z. weights must be parallel to samples (the current D).
func TrainHaarStumpExhaustive(samples []HaarSample, weights []float64, winH, winW int, kind Kind, confidence, useSortCache bool, rng *rand.Rand) (*HaarStump, float64, error) {
	if len(samples) == 0 {
		return nil, 0, ErrNoSamples
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	bestZ := -1.0
	var bestDesc numeric.HaarFeature
	var bestBody Body
	found := false

	for _, typ := range []numeric.HaarType{numeric.TwoHorizontal, numeric.TwoVertical, numeric.ThreeHorizontal, numeric.FourQuad} {
		for width := 1; width <= winW; width++ {
			for height := 1; height <= winH; height++ {
				for startX := 0; startX < winW; startX++ {
					for startY := 0; startY < winH; startY++ {
						desc := numeric.HaarFeature{Type: typ, StartX: startX, StartY: startY, Width: width, Height: height}
						if !desc.Valid(1, winH, winW) {
							continue
						}

						vals := evaluateHaarValues(desc, samples, winH, winW)
						for i := range vals {
							vals[i].Weight = weights[i]
						}

						var body Body
						var z float64
						var err error
						switch kind {
						case KindDiscrete:
							body, z, err = TrainDiscrete(vals, confidence)
						default:
							if useSortCache {
								body, z, err = TrainContinuousSorted(vals, confidence, 0)
							} else {
								body, z, err = TrainContinuousQuickselect(vals, confidence, 0, rng)
							}
						}
						if err != nil {
							return nil, 0, err
						}

						if !found || z < bestZ {
							found = true
							bestZ = z
							bestDesc = desc
							bestBody = body
						}
					}
				}
			}
		}
	}

	if !found {
		return nil, 0, ErrNoValidDescriptor
	}
	return &HaarStump{Descriptor: bestDesc, Body: bestBody}, bestZ, nil
}
