package classifier

import (
	"math/rand"
	"testing"
)

func TestTrainVectorMulticlassSeparates(t *testing.T) {
	// Three well-separated clusters along one axis.
	x := [][]float64{
		{10}, {11}, // class 0
		{0}, {1},   // class 1
		{-10}, {-11}, // class 2
	}
	labels := []int{0, 0, 1, 1, 2, 2}

	cfg := DefaultVectorMulticlassConfig()
	c, err := TrainVectorMulticlass(x, labels, 3, cfg, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range x {
		if got := c.Predict(row); got != labels[i] {
			t.Errorf("Predict(%v) = %d, want %d", row, got, labels[i])
		}
	}
}

func TestTrainVectorMulticlassAllPassFillsRounds(t *testing.T) {
	x := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	labels := []int{0, 1, 2}

	cfg := DefaultVectorMulticlassConfig()
	cfg.Rounds = 8
	c, err := TrainVectorMulticlass(x, labels, 3, cfg, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Groups) != cfg.Rounds || len(c.Alphas) != cfg.Rounds {
		t.Fatalf("groups/alphas = %d/%d, want %d each", len(c.Groups), len(c.Alphas), cfg.Rounds)
	}
}

func TestTrainVectorMulticlassNoSamples(t *testing.T) {
	cfg := DefaultVectorMulticlassConfig()
	if _, err := TrainVectorMulticlass(nil, nil, 2, cfg, nil); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestTrainVectorMulticlassLabelMismatch(t *testing.T) {
	cfg := DefaultVectorMulticlassConfig()
	x := [][]float64{{1}, {2}}
	labels := []int{0}
	if _, err := TrainVectorMulticlass(x, labels, 2, cfg, nil); err != ErrLabelMismatch {
		t.Errorf("expected ErrLabelMismatch, got %v", err)
	}
}
