package stump

import (
	"math"
	"sort"
)

// TrainDiscrete buckets samples by their distinct observed Value and
// trains a Discrete stump: per-value outputs are the signed majority
// (plain) or log-odds (confidence-rated), and a default output covers
// values never seen in training, derived from the global masses
// (spec §4.4). Returns the stump and its Z value,
// Z = Σ_v sqrt(W+[v]*W-[v]), where a mass that is exactly zero counts
// as ε = 1/m.
func TrainDiscrete(samples []LabeledValue, confidence bool) (*Discrete, float64, error) {
	if len(samples) == 0 {
		return nil, 0, ErrNoSamples
	}

	buckets := map[float64]*struct{ pos, neg float64 }{}
	var globalPos, globalNeg float64
	for _, s := range samples {
		b, ok := buckets[s.Value]
		if !ok {
			b = &struct{ pos, neg float64 }{}
			buckets[s.Value] = b
		}
		if s.Label > 0 {
			b.pos += s.Weight
			globalPos += s.Weight
		} else {
			b.neg += s.Weight
			globalNeg += s.Weight
		}
	}

	values := make([]float64, 0, len(buckets))
	for v := range buckets {
		values = append(values, v)
	}
	sort.Float64s(values)

	eps := 1.0 / float64(len(samples))
	outputs := make([]float64, len(values))
	z := 0.0
	for i, v := range values {
		b := buckets[v]
		outputs[i] = outputsFor(confidence, b.pos, b.neg, eps)
		z += math.Sqrt(smoothMass(b.pos, eps) * smoothMass(b.neg, eps))
	}

	defaultOut := outputsFor(confidence, globalPos, globalNeg, eps)

	return &Discrete{
		Confidence: confidence,
		Values:     values,
		Outputs:    outputs,
		Default:    defaultOut,
	}, z, nil
}
