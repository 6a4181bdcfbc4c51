package stump

import (
	"math/rand"
	"testing"
)

func TestTrainContinuousSortedTwoPoints(t *testing.T) {
	// spec §8 scenario 1
	samples := []LabeledValue{
		{Value: -1.0, Label: -1, Weight: 0.5},
		{Value: 1.0, Label: 1, Weight: 0.5},
	}
	c, z, err := TrainContinuousSorted(samples, false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Theta != 0.0 {
		t.Errorf("theta = %v, want 0.0", c.Theta)
	}
	if c.OutLow != -1 || c.OutHigh != 1 {
		t.Errorf("outputs = (%v, %v), want (-1, 1)", c.OutLow, c.OutHigh)
	}
	wantZ := 2.0 / float64(len(samples))
	if z != wantZ {
		t.Errorf("z = %v, want %v", z, wantZ)
	}
}

func TestTrainContinuousThetaBetweenAdjacentValues(t *testing.T) {
	samples := []LabeledValue{
		{Value: 0.1, Label: -1, Weight: 1},
		{Value: 0.4, Label: -1, Weight: 1},
		{Value: 0.6, Label: 1, Weight: 1},
		{Value: 0.9, Label: 1, Weight: 1},
	}
	c, _, err := TrainContinuousSorted(samples, false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(c.Theta > 0.4 && c.Theta < 0.6) {
		t.Errorf("theta = %v, want strictly between 0.4 and 0.6", c.Theta)
	}
}

func TestTrainContinuousDegenerateExtreme(t *testing.T) {
	samples := []LabeledValue{
		{Value: 5, Label: 1, Weight: 1},
		{Value: 5, Label: 1, Weight: 1},
		{Value: 5, Label: -1, Weight: 1},
	}
	c, _, err := TrainContinuousSorted(samples, false, 1e-3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// All values equal: the only candidates are before-all / after-all.
	if c.Theta != 5-1e-3 && c.Theta != 5+1e-3 {
		t.Errorf("theta = %v, want offset by segInterval from the single observed value", c.Theta)
	}
}

func TestContinuousConfidenceRated(t *testing.T) {
	samples := []LabeledValue{
		{Value: -2, Label: -1, Weight: 0.25},
		{Value: -1, Label: -1, Weight: 0.25},
		{Value: 1, Label: 1, Weight: 0.25},
		{Value: 2, Label: 1, Weight: 0.25},
	}
	c, _, err := TrainContinuousSorted(samples, true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.OutLow >= 0 {
		t.Errorf("OutLow = %v, expected negative confidence for the negative side", c.OutLow)
	}
	if c.OutHigh <= 0 {
		t.Errorf("OutHigh = %v, expected positive confidence for the positive side", c.OutHigh)
	}
}

func TestQuickselectMatchesSortedOptimum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]LabeledValue, 40)
	for i := range samples {
		v := float64(rng.Intn(100))
		label := 1.0
		if v < 50 {
			label = -1.0
		}
		samples[i] = LabeledValue{Value: v, Label: label, Weight: rng.Float64() + 0.01}
	}
	// normalize weights
	total := 0.0
	for _, s := range samples {
		total += s.Weight
	}
	for i := range samples {
		samples[i].Weight /= total
	}

	_, zSorted, err := TrainContinuousSorted(samples, false, 0)
	if err != nil {
		t.Fatalf("sorted: %v", err)
	}
	_, zQuick, err := TrainContinuousQuickselect(samples, false, 0, rng)
	if err != nil {
		t.Fatalf("quickselect: %v", err)
	}
	if absDiff(zSorted, zQuick) > 1e-9 {
		t.Errorf("quickselect z = %v, sorted z = %v, expected equal optimum", zQuick, zSorted)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestTrainContinuousNoSamples(t *testing.T) {
	if _, _, err := TrainContinuousSorted(nil, false, 0); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}
