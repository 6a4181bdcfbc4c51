package stump

import "math/rand"

// Kind selects which stump variant a vector-feature search trains.
type Kind int

const (
	KindContinuous Kind = iota
	KindDiscrete
)

// VectorStump is a weak learner over a fixed-length numeric feature
// vector: it selects one feature index and delegates classification to
// a Body (continuous or discrete) trained on that feature's values
// (spec §3).
type VectorStump struct {
	Feature int
	Body    Body
}

func (v *VectorStump) Eval(x []float64) float64 { return v.Body.Eval(x[v.Feature]) }
func (v *VectorStump) IsConfidence() bool        { return v.Body.IsConfidence() }

// TrainVectorStump searches every feature index in [0, n) for the split
// minimizing Z, per the "caller provides enumerator, update-best
// callback" contract of spec §4.3: the loop here *is* that enumerator.
// useSortCache selects sort-based search (O(m log m), caller is asserting
// samples can be cheaply re-sorted per feature) vs quickselect
// branch-and-bound (no precomputed order assumed).
func TrainVectorStump(x [][]float64, labels, weights []float64, kind Kind, confidence, useSortCache bool, rng *rand.Rand) (*VectorStump, float64, error) {
	if len(x) == 0 {
		return nil, 0, ErrNoSamples
	}
	n := len(x[0])
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	bestZ := -1.0
	var bestFeature int
	var bestBody Body

	for j := 0; j < n; j++ {
		samples := make([]LabeledValue, len(x))
		for i := range x {
			samples[i] = LabeledValue{Value: x[i][j], Label: labels[i], Weight: weights[i]}
		}

		var body Body
		var z float64
		var err error
		switch kind {
		case KindDiscrete:
			body, z, err = TrainDiscrete(samples, confidence)
		default:
			if useSortCache {
				body, z, err = TrainContinuousSorted(samples, confidence, 0)
			} else {
				body, z, err = TrainContinuousQuickselect(samples, confidence, 0, rng)
			}
		}
		if err != nil {
			return nil, 0, err
		}

		if bestZ < 0 || z < bestZ {
			bestZ = z
			bestFeature = j
			bestBody = body
		}
	}

	return &VectorStump{Feature: bestFeature, Body: bestBody}, bestZ, nil
}
