package stump

import (
	"testing"

	"github.com/cwbudde/boostcascade/internal/numeric"
)

func mustHaarSample(t *testing.T, pixels [][]float64, label float64) HaarSample {
	t.Helper()
	g := numeric.NewGrid(len(pixels), len(pixels[0]))
	for i, row := range pixels {
		copy(g[i], row)
	}
	s1, err := numeric.BuildIntegral(g)
	if err != nil {
		t.Fatalf("BuildIntegral: %v", err)
	}
	s2, err := numeric.BuildSquaredIntegral(g)
	if err != nil {
		t.Fatalf("BuildSquaredIntegral: %v", err)
	}
	return HaarSample{S: s1, S2: s2, Label: label}
}

func TestTrainHaarStumpExhaustiveSeparates(t *testing.T) {
	positive := [][]float64{
		{21, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	negative := [][]float64{
		{-19, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	samples := []HaarSample{
		mustHaarSample(t, positive, 1),
		mustHaarSample(t, positive, 1),
		mustHaarSample(t, negative, -1),
		mustHaarSample(t, negative, -1),
	}
	weights := []float64{0.25, 0.25, 0.25, 0.25}

	stump, z, err := TrainHaarStumpExhaustive(samples, weights, 3, 3, KindContinuous, false, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stump.Descriptor.Valid(1, 3, 3) {
		t.Errorf("descriptor %+v is not valid for a 3x3 window", stump.Descriptor)
	}
	if z < 0 || z > 1 {
		t.Errorf("z = %v, want in [0, 1]", z)
	}

	win := numeric.WholeGridWindow(3, 3)
	for i, s := range samples {
		got := stump.Eval(s.S, s.S2, win, 1)
		if (got >= 0) != (s.Label > 0) {
			t.Errorf("sample %d: Eval = %v, want sign matching label %v", i, got, s.Label)
		}
	}
}

func TestTrainHaarStumpExhaustiveNoSamples(t *testing.T) {
	if _, _, err := TrainHaarStumpExhaustive(nil, nil, 3, 3, KindContinuous, false, true, nil); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestTrainHaarStumpExhaustiveDiscrete(t *testing.T) {
	positive := [][]float64{
		{21, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	negative := [][]float64{
		{-19, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	samples := []HaarSample{
		mustHaarSample(t, positive, 1),
		mustHaarSample(t, negative, -1),
	}
	weights := []float64{0.5, 0.5}

	stump, _, err := TrainHaarStumpExhaustive(samples, weights, 3, 3, KindDiscrete, false, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := stump.Body.(*Discrete); !ok {
		t.Errorf("body type = %T, want *Discrete", stump.Body)
	}
}
