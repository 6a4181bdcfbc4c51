package classifier

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

func sampleVectorStump(feature int, theta, lo, hi float64) *stump.VectorStump {
	return &stump.VectorStump{Feature: feature, Body: &stump.Continuous{Theta: theta, Confidence: true, OutLow: lo, OutHigh: hi}}
}

func TestVectorBinaryRoundTrip(t *testing.T) {
	c := &VectorBinary{
		Learners:   []*stump.VectorStump{sampleVectorStump(0, 0.5, -1, 1), sampleVectorStump(1, -0.2, -0.5, 0.5)},
		Alphas:     []float64{0.8, 0.3},
		Confidence: true,
	}
	var buf bytes.Buffer
	if err := WriteVectorBinary(&buf, c); err != nil {
		t.Fatalf("WriteVectorBinary: %v", err)
	}
	got, err := ReadVectorBinary(&buf, stump.KindContinuous, true)
	if err != nil {
		t.Fatalf("ReadVectorBinary: %v", err)
	}
	if len(got.Learners) != 2 || got.Alphas[1] != 0.3 || got.Learners[1].Feature != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestVectorMulticlassRoundTrip(t *testing.T) {
	c := &VectorMulticlass{
		K: 2,
		Groups: []*classGroup{
			{Learners: []*stump.VectorStump{sampleVectorStump(0, 0, -1, 1), sampleVectorStump(1, 0, -1, 1)}},
		},
		Alphas: []float64{0.6},
	}
	var buf bytes.Buffer
	if err := WriteVectorMulticlass(&buf, c); err != nil {
		t.Fatalf("WriteVectorMulticlass: %v", err)
	}
	got, err := ReadVectorMulticlass(&buf, stump.KindContinuous, true)
	if err != nil {
		t.Fatalf("ReadVectorMulticlass: %v", err)
	}
	if got.K != 2 || len(got.Groups) != 1 || len(got.Groups[0].Learners) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestHaarBoosterRoundTrip(t *testing.T) {
	train := haarDataset(t, 6)
	val := haarDataset(t, 4)
	cfg := DefaultHaarBoosterConfig(3, 3)
	cfg.MaxRounds = 5
	booster, _, _, err := TrainHaarBooster(train, val, cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("TrainHaarBooster: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteHaarBooster(&buf, booster); err != nil {
		t.Fatalf("WriteHaarBooster: %v", err)
	}
	got, err := ReadHaarBooster(&buf, stump.KindContinuous, booster.Confidence, booster.WinH, booster.WinW)
	if err != nil {
		t.Fatalf("ReadHaarBooster: %v", err)
	}
	if got.Tau != booster.Tau || len(got.Rounds) != len(booster.Rounds) {
		t.Fatalf("got %+v, want tau=%v rounds=%d", got, booster.Tau, len(booster.Rounds))
	}

	win := numeric.WholeGridWindow(booster.WinH, booster.WinW)
	sample := haarSampleFor(t, [][]float64{{9, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 1)
	if got.Score(sample.S, sample.S2, win, 1) != booster.Score(sample.S, sample.S2, win, 1) {
		t.Error("round-tripped booster disagrees with original on the same input")
	}
}
