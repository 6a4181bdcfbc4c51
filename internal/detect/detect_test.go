package detect

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/classifier"
	"github.com/cwbudde/boostcascade/internal/geom"
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

func trainSingleStageCascade(t *testing.T) *cascade.Cascade {
	t.Helper()
	positive := [][]float64{{21, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	negative := [][]float64{{-19, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	var train, val []stump.HaarSample
	for i := 0; i < 6; i++ {
		train = append(train, haarSampleFor(t, positive, 1), haarSampleFor(t, negative, -1))
	}
	for i := 0; i < 4; i++ {
		val = append(val, haarSampleFor(t, positive, 1), haarSampleFor(t, negative, -1))
	}

	cfg := classifier.DefaultHaarBoosterConfig(3, 3)
	cfg.MaxRounds = 5
	booster, _, _, err := classifier.TrainHaarBooster(train, val, cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error training stage: %v", err)
	}
	return &cascade.Cascade{ImageSize: 3, Stages: []*classifier.HaarBooster{booster}, CumDetRate: 1, CumFPRate: 0}
}

func TestDetectFindsEmbeddedPositivePatch(t *testing.T) {
	c := trainSingleStageCascade(t)

	// A 6x6 background built from the negative pattern, with the
	// positive pattern embedded at (0,0)-(3,3).
	img := [][]float64{
		{21, 2, 3, -19, 2, 3},
		{4, 5, 6, 4, 5, 6},
		{7, 8, 9, 7, 8, 9},
		{-19, 2, 3, -19, 2, 3},
		{4, 5, 6, 4, 5, 6},
		{7, 8, 9, 7, 8, 9},
	}

	dets, err := Detect(c, img, Config{Step: 1, ScaleStep: 1.25, NMSThreshold: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range dets {
		if d.Rect.StartX == 0 && d.Rect.StartY == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a detection at (0,0), got %+v", dets)
	}
}

func TestDetectNoStagesErrors(t *testing.T) {
	c := &cascade.Cascade{ImageSize: 3}
	if _, err := Detect(c, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, DefaultConfig()); err == nil {
		t.Fatal("expected an error for a cascade with no stages")
	}
}

func TestSuppressDropsOverlapping(t *testing.T) {
	hits := []Detection{
		{Rect: geom.Rect{StartX: 0, StartY: 0, Width: 10, Height: 10}, Confidence: 1.0},
		{Rect: geom.Rect{StartX: 1, StartY: 1, Width: 10, Height: 10}, Confidence: 0.5},
		{Rect: geom.Rect{StartX: 50, StartY: 50, Width: 10, Height: 10}, Confidence: 0.9},
	}
	kept := suppress(hits, 0.1)
	if len(kept) != 2 {
		t.Fatalf("got %d survivors, want 2", len(kept))
	}
	if kept[0].Confidence != 1.0 || kept[1].Confidence != 0.9 {
		t.Errorf("survivors = %+v, want confidences [1.0, 0.9]", kept)
	}
}
