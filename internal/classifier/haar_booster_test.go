package classifier

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

func haarSampleFor(t *testing.T, pixels [][]float64, label float64) stump.HaarSample {
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
	return stump.HaarSample{S: s1, S2: s2, Label: label}
}

func haarDataset(t *testing.T, n int) []stump.HaarSample {
	t.Helper()
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
	samples := make([]stump.HaarSample, 0, 2*n)
	for i := 0; i < n; i++ {
		samples = append(samples, haarSampleFor(t, positive, 1))
		samples = append(samples, haarSampleFor(t, negative, -1))
	}
	return samples
}

func TestTrainHaarBoosterMeetsDetectionQuota(t *testing.T) {
	train := haarDataset(t, 6)
	val := haarDataset(t, 6)

	cfg := DefaultHaarBoosterConfig(3, 3)
	cfg.MaxRounds = 5
	cfg.DMin = 0.95
	cfg.FMax = 0.1

	booster, detRate, _, err := TrainHaarBooster(train, val, cfg, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detRate < cfg.DMin {
		t.Errorf("detRate = %v, want >= %v", detRate, cfg.DMin)
	}
	win := numeric.WholeGridWindow(3, 3)
	for i, s := range val {
		accept := booster.Accept(s.S, s.S2, win, 1)
		if s.Label > 0 && !accept {
			t.Errorf("positive sample %d rejected", i)
		}
	}
}

func TestTrainHaarBoosterNoSamples(t *testing.T) {
	cfg := DefaultHaarBoosterConfig(3, 3)
	if _, _, _, err := TrainHaarBooster(nil, haarDataset(t, 1), cfg, nil); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestTrainHaarBoosterNoValidationSamples(t *testing.T) {
	cfg := DefaultHaarBoosterConfig(3, 3)
	if _, _, _, err := TrainHaarBooster(haarDataset(t, 1), nil, cfg, nil); err != ErrNoValidationSamples {
		t.Errorf("expected ErrNoValidationSamples, got %v", err)
	}
}

func TestApplyAsymWeightsMatchesScenario(t *testing.T) {
	// spec §8 scenario 6's own stated weights [2,2,0.5,0.5] (sqrt(k),
	// k=4) renormalize to [0.4,0.4,0.1,0.1], not the scenario's stated
	// [1/3,1/3,1/6,1/6] — see DESIGN.md for the discrepancy note.
	d := []float64{0.25, 0.25, 0.25, 0.25}
	labels := []float64{1, 1, -1, -1}
	applyAsymWeights(d, labels, 4)

	want := []float64{0.4, 0.4, 0.1, 0.1}
	for i := range d {
		diff := d[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-9 {
			t.Errorf("d[%d] = %v, want %v", i, d[i], want[i])
		}
	}
}
