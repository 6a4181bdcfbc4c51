package classifier

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/boostcascade/internal/stump"
)

func TestTrainVectorBinarySeparates(t *testing.T) {
	x := [][]float64{
		{5, -1}, {6, -2}, {4, -1}, // positives: feature0 high
		{-5, 1}, {-6, 2}, {-4, 1}, // negatives: feature0 low
	}
	labels := []float64{1, 1, 1, -1, -1, -1}

	cfg := DefaultVectorBinaryConfig()
	c, err := TrainVectorBinary(x, labels, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Learners) == 0 {
		t.Fatal("expected at least one learner")
	}
	for i, row := range x {
		if got := c.Predict(row); got != labels[i] {
			t.Errorf("Predict(%v) = %v, want %v", row, got, labels[i])
		}
	}
}

func TestTrainVectorBinaryAllPassFillsRounds(t *testing.T) {
	x := [][]float64{{1}, {-1}}
	labels := []float64{1, -1}

	cfg := DefaultVectorBinaryConfig()
	cfg.Rounds = 10
	c, err := TrainVectorBinary(x, labels, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Learners) != cfg.Rounds || len(c.Alphas) != cfg.Rounds {
		t.Fatalf("learners/alphas = %d/%d, want %d each (all-pass replication)", len(c.Learners), len(c.Alphas), cfg.Rounds)
	}
	for i := 1; i < len(c.Learners); i++ {
		if c.Learners[i] != c.Learners[0] {
			t.Errorf("learner %d differs from the replicated all-pass learner", i)
		}
	}
}

func TestTrainVectorBinaryFolded(t *testing.T) {
	x := [][]float64{{5}, {6}, {-5}, {-6}}
	labels := []float64{1, 1, -1, -1}

	cfg := DefaultVectorBinaryConfig()
	cfg.Confidence = true
	cfg.UsingFold = true
	c, err := TrainVectorBinary(x, labels, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range x {
		if got := c.Predict(row); got != labels[i] {
			t.Errorf("Predict(%v) = %v, want %v", row, got, labels[i])
		}
	}
}

func TestTrainVectorBinaryNoSamples(t *testing.T) {
	cfg := DefaultVectorBinaryConfig()
	if _, err := TrainVectorBinary(nil, nil, cfg, nil); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestTrainVectorBinaryLabelMismatch(t *testing.T) {
	cfg := DefaultVectorBinaryConfig()
	x := [][]float64{{1}, {2}}
	labels := []float64{1}
	if _, err := TrainVectorBinary(x, labels, cfg, nil); err != ErrLabelMismatch {
		t.Errorf("expected ErrLabelMismatch, got %v", err)
	}
}

func TestVectorBinaryDiscreteKind(t *testing.T) {
	x := [][]float64{{0}, {1}, {0}, {1}}
	labels := []float64{-1, 1, -1, 1}
	cfg := DefaultVectorBinaryConfig()
	cfg.Kind = stump.KindDiscrete
	c, err := TrainVectorBinary(x, labels, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range x {
		if got := c.Predict(row); got != labels[i] {
			t.Errorf("Predict(%v) = %v, want %v", row, got, labels[i])
		}
	}
}
