package stump

import (
	"math/rand"
	"testing"
)

func TestTrainVectorStumpPicksSeparatingFeature(t *testing.T) {
	// Feature 0 is noise, feature 1 perfectly separates the labels.
	x := [][]float64{
		{10, -1},
		{12, -1},
		{11, 1},
		{9, 1},
	}
	labels := []float64{-1, -1, 1, 1}
	weights := []float64{0.25, 0.25, 0.25, 0.25}

	vs, _, err := TrainVectorStump(x, labels, weights, KindContinuous, false, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vs.Feature != 1 {
		t.Errorf("feature = %d, want 1 (the separating feature)", vs.Feature)
	}
	for i, row := range x {
		if got := vs.Eval(row); got != labels[i] {
			t.Errorf("Eval(%v) = %v, want %v", row, got, labels[i])
		}
	}
}

func TestTrainVectorStumpQuickselectAgreesWithSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := make([][]float64, 30)
	labels := make([]float64, 30)
	weights := make([]float64, 30)
	for i := range x {
		v := rng.Float64() * 10
		label := 1.0
		if v < 5 {
			label = -1.0
		}
		x[i] = []float64{v}
		labels[i] = label
		weights[i] = 1.0 / 30
	}

	_, zSorted, err := TrainVectorStump(x, labels, weights, KindContinuous, false, true, nil)
	if err != nil {
		t.Fatalf("sorted: %v", err)
	}
	_, zQuick, err := TrainVectorStump(x, labels, weights, KindContinuous, false, false, rng)
	if err != nil {
		t.Fatalf("quickselect: %v", err)
	}
	if absDiff(zSorted, zQuick) > 1e-9 {
		t.Errorf("quickselect z = %v, sorted z = %v, expected equal optimum", zQuick, zSorted)
	}
}

func TestTrainVectorStumpDiscrete(t *testing.T) {
	x := [][]float64{{0}, {1}, {0}, {1}}
	labels := []float64{-1, 1, -1, 1}
	weights := []float64{0.25, 0.25, 0.25, 0.25}

	vs, _, err := TrainVectorStump(x, labels, weights, KindDiscrete, false, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vs.Feature != 0 {
		t.Errorf("feature = %d, want 0", vs.Feature)
	}
	if vs.Eval([]float64{0}) != -1 || vs.Eval([]float64{1}) != 1 {
		t.Errorf("discrete stump did not reproduce the training labels")
	}
}

func TestTrainVectorStumpNoSamples(t *testing.T) {
	if _, _, err := TrainVectorStump(nil, nil, nil, KindContinuous, false, true, nil); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}
