package cascade

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/classifier"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// Config tunes one full cascade training run (spec §4.10).
type Config struct {
	// ImageSize is the fixed S×S training window every stage shares.
	ImageSize int
	// PTarget, NTarget are the initial positive/negative sample counts.
	PTarget, NTarget int
	// PTrain is the fraction of the sample set held out for training;
	// the remainder validates each stage's ratio check.
	PTrain float64
	// DStar, FStar are each stage's detection-rate floor and false-
	// positive-rate ceiling.
	DStar, FStar float64
	// FTarget is the overall cascade false-positive budget F; training
	// continues while the cumulative false-positive rate exceeds it.
	FTarget float64
	// MaxStages bounds the stage loop so a cascade that can never reach
	// FTarget still terminates.
	MaxStages int

	// Stage is the per-stage Haar booster template; DMin/FMax are
	// overridden from DStar/FStar before each stage trains.
	Stage classifier.HaarBoosterConfig

	// Step, ScaleStep drive the bootstrap hard-negative scan (spec
	// §4.11's Δ and ×1.25 scale growth, reused here per §4.10 step 2d).
	Step      int
	ScaleStep float64
}

// DefaultConfig returns spec-default cascade tuning for a given square
// training window size.
func DefaultConfig(imageSize int) Config {
	return Config{
		ImageSize: imageSize,
		PTarget:   1000,
		NTarget:   2000,
		PTrain:    0.7,
		DStar:     0.995,
		FStar:     0.5,
		FTarget:   1e-5,
		MaxStages: 30,
		Stage:     classifier.DefaultHaarBoosterConfig(imageSize, imageSize),
		Step:      2,
		ScaleStep: 1.25,
	}
}

// Cascade is a trained sequence of Haar booster stages (spec §4.10): a
// window is accepted only if every stage in order accepts it.
type Cascade struct {
	ImageSize  int
	Stages     []*classifier.HaarBooster
	CumDetRate float64
	CumFPRate  float64
}

// Accept reports whether every stage accepts the window in sequence
// (spec §4.11): rejection at any stage short-circuits the scan.
func (c *Cascade) Accept(s, s2 numeric.Grid, win numeric.Window, scale float64) bool {
	for _, st := range c.Stages {
		if !st.Accept(s, s2, win, scale) {
			return false
		}
	}
	return true
}

// Score returns the last stage's score, the detector's confidence
// value for an accepted window (spec §4.11). Callers should only rely
// on it after confirming Accept.
func (c *Cascade) Score(s, s2 numeric.Grid, win numeric.Window, scale float64) float64 {
	if len(c.Stages) == 0 {
		return 0
	}
	return c.Stages[len(c.Stages)-1].Score(s, s2, win, scale)
}

// TrainCascade runs the full stage-training/bootstrap loop of spec
// §4.10, driving the state machine of spec §4.12. progress, if
// non-nil, is called at every state transition.
func TrainCascade(cfg Config, pos PositiveSource, neg NegativeSource, rng *rand.Rand, progress func(Progress)) (*Cascade, error) {
	return ResumeCascade(cfg, nil, pos, neg, rng, progress)
}

// ResumeCascade continues stage training from a previously trained
// prefix cascade instead of starting at stage 0 (spec §4.12's resume
// story for a checkpointed run). A restarted process has lost the
// in-memory sample set an uninterrupted run would still hold, so
// rather than replay it, ResumeCascade rebuilds an initial sample set
// exactly as TrainCascade would and then runs one bootstrap pass
// against prefix before resuming the stage loop — reconstructing
// "stage k's surviving negatives plus freshly bootstrapped hard
// negatives" (spec §3) from the persisted cascade alone. prefix == nil
// (or empty) behaves exactly like TrainCascade.
func ResumeCascade(cfg Config, prefix *Cascade, pos PositiveSource, neg NegativeSource, rng *rand.Rand, progress func(Progress)) (*Cascade, error) {
	var c *Cascade
	report := func(st State, stage int, detRate, fpRate float64) {
		if progress != nil {
			progress(Progress{State: st, Stage: stage, CumDetRate: detRate, CumFPRate: fpRate, Cascade: c})
		}
	}
	report(StateInit, 0, 1, 1)

	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.ImageSize <= 0 {
		report(StateFailed, 0, 0, 0)
		return nil, fmt.Errorf("cascade: ImageSize must be positive, got %d", cfg.ImageSize)
	}
	if prefix != nil && prefix.ImageSize > 0 && prefix.ImageSize != cfg.ImageSize {
		report(StateFailed, 0, 0, 0)
		return nil, fmt.Errorf("cascade: resume ImageSize mismatch: prefix has %d, config has %d", prefix.ImageSize, cfg.ImageSize)
	}

	report(StateSampling, 0, 1, 1)
	samples, err := buildInitialSamples(pos, neg, cfg.PTarget, cfg.NTarget, cfg.ImageSize, rng)
	if err != nil {
		report(StateFailed, 0, 0, 0)
		return nil, fmt.Errorf("cascade: initial sampling: %w", err)
	}
	positives, negatives := splitByLabel(samples)
	slog.Info("cascade sampling complete", "positives", len(positives), "negatives", len(negatives))

	bootstrapper := &Bootstrapper{Neg: neg, WinSize: cfg.ImageSize, Step: cfg.Step, ScaleStep: cfg.ScaleStep}

	startStage := 0
	if prefix != nil && len(prefix.Stages) > 0 {
		c = &Cascade{
			ImageSize:  cfg.ImageSize,
			Stages:     append([]*classifier.HaarBooster{}, prefix.Stages...),
			CumDetRate: prefix.CumDetRate,
			CumFPRate:  prefix.CumFPRate,
		}
		startStage = len(c.Stages)
		report(StateBootstrap, startStage, c.CumDetRate, c.CumFPRate)
		refilled, err := bootstrapper.Refill(negatives, c.Accept, cfg.NTarget, rng)
		if err != nil {
			slog.Warn("cascade resume found no hard negatives against the persisted prefix, stopping with current cascade", "stage", startStage, "error", err)
			report(StateDone, startStage, c.CumDetRate, c.CumFPRate)
			return c, nil
		}
		negatives = refilled
	} else {
		c = &Cascade{ImageSize: cfg.ImageSize, CumDetRate: 1, CumFPRate: 1}
	}
	report(StateStageTraining, startStage, c.CumDetRate, c.CumFPRate)

	for stageIdx := startStage; stageIdx < cfg.MaxStages && c.CumFPRate > cfg.FTarget; stageIdx++ {
		combined := append(append([]stump.HaarSample{}, positives...), negatives...)
		rng.Shuffle(len(combined), func(i, j int) { combined[i], combined[j] = combined[j], combined[i] })
		train, val := splitTrainVal(combined, cfg.PTrain)

		stageCfg := cfg.Stage
		stageCfg.WinH, stageCfg.WinW = cfg.ImageSize, cfg.ImageSize
		stageCfg.DMin, stageCfg.FMax = cfg.DStar, cfg.FStar

		booster, detRate, fpRate, err := classifier.TrainHaarBooster(train, val, stageCfg, rng)
		if err != nil {
			report(StateFailed, stageIdx, c.CumDetRate, c.CumFPRate)
			return nil, fmt.Errorf("cascade: stage %d training: %w", stageIdx, err)
		}

		c.Stages = append(c.Stages, booster)
		c.CumDetRate *= detRate
		c.CumFPRate *= fpRate
		slog.Info("cascade stage trained", "stage", stageIdx, "det_rate", detRate, "fp_rate", fpRate,
			"cum_det_rate", c.CumDetRate, "cum_fp_rate", c.CumFPRate)

		if fpRate > cfg.FStar {
			// The stage ran to its training budget without reaching its
			// own false-positive target: accept its best effort and
			// stop rather than bootstrap against a stage that can't be
			// tightened further (spec §4.10 step 2a).
			report(StateDone, stageIdx, c.CumDetRate, c.CumFPRate)
			return c, nil
		}
		if c.CumFPRate <= cfg.FTarget {
			report(StateDone, stageIdx, c.CumDetRate, c.CumFPRate)
			return c, nil
		}

		report(StateBootstrap, stageIdx, c.CumDetRate, c.CumFPRate)
		refilled, err := bootstrapper.Refill(negatives, c.Accept, cfg.NTarget, rng)
		if err != nil {
			// The negative stream is exhausted: spec §4.12 treats this
			// as a clean stop with the current cascade preserved, not a
			// hard failure.
			slog.Warn("cascade bootstrap exhausted negative stream, stopping with current cascade", "stage", stageIdx, "error", err)
			report(StateDone, stageIdx, c.CumDetRate, c.CumFPRate)
			return c, nil
		}
		negatives = refilled
		report(StateStageTraining, stageIdx+1, c.CumDetRate, c.CumFPRate)
	}

	report(StateDone, len(c.Stages), c.CumDetRate, c.CumFPRate)
	return c, nil
}

// splitByLabel partitions a shuffled initial sample set back into its
// positive and negative subsets, preserving relative order.
func splitByLabel(samples []stump.HaarSample) (positives, negatives []stump.HaarSample) {
	for _, s := range samples {
		if s.Label > 0 {
			positives = append(positives, s)
		} else {
			negatives = append(negatives, s)
		}
	}
	return positives, negatives
}
