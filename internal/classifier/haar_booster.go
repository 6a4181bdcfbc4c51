package classifier

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/boostcascade/internal/boost"
	"github.com/cwbudde/boostcascade/internal/config"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/opt"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// HaarBoosterConfig tunes one stage's Haar booster training (spec §4.9).
type HaarBoosterConfig struct {
	MaxRounds    int
	Kind         stump.Kind
	Confidence   bool
	WinH, WinW   int
	UseSortCache bool
	Solver       numeric.AlphaSolver

	// UseGA selects the genetic-algorithm descriptor search (spec §4.5)
	// over exhaustive enumeration; Optimizer must be set when true.
	UseGA     bool
	GAConfig  config.GAConfig
	Optimizer opt.Optimizer

	// DMin, FMax are this stage's detection-rate floor and false-
	// positive-rate ceiling (d*, f* in spec §4.9).
	DMin, FMax float64

	// Asym selects asymmetric-loss training; nil trains the plain form.
	Asym *config.AsymConfig
}

// DefaultHaarBoosterConfig returns an exhaustive, continuous, non-
// asymmetric configuration with the approximate α solver.
func DefaultHaarBoosterConfig(winH, winW int) HaarBoosterConfig {
	return HaarBoosterConfig{
		MaxRounds:    200,
		Kind:         stump.KindContinuous,
		WinH:         winH,
		WinW:         winW,
		UseSortCache: true,
		Solver:       numeric.ApproxAlpha{},
		DMin:         0.995,
		FMax:         0.5,
	}
}

type haarRound struct {
	Stump *stump.HaarStump
	Alpha float64
}

// HaarBooster is a trained stage classifier: a sequence of (α, Haar
// learner) pairs plus a calibrated decision threshold τ (spec §4.9).
type HaarBooster struct {
	Rounds     []haarRound
	Tau        float64
	Confidence bool
	WinH, WinW int
	// UsingFold mirrors the vector boosters' storage choice (spec
	// §6.1); TrainHaarBooster always produces an unfolded booster.
	UsingFold bool
}

// Score returns Σ αᵢ·hᵢ(window) − τ; the window is accepted iff Score > 0.
func (c *HaarBooster) Score(s, s2 numeric.Grid, win numeric.Window, scale float64) float64 {
	score := 0.0
	for _, r := range c.Rounds {
		score += r.Alpha * r.Stump.Eval(s, s2, win, scale)
	}
	return score - c.Tau
}

// Accept reports whether a window passes this stage.
func (c *HaarBooster) Accept(s, s2 numeric.Grid, win numeric.Window, scale float64) bool {
	return c.Score(s, s2, win, scale) > 0
}

// TrainHaarBooster trains one cascade stage to its (d*, f*) targets
// (spec §4.9): trainSamples drive the boosting rounds, valSamples drive
// the per-round ratio check that calibrates τ. Returns the booster plus
// the validation detection and false-positive rates realized by the
// final τ.
func TrainHaarBooster(trainSamples []stump.HaarSample, valSamples []stump.HaarSample, cfg HaarBoosterConfig, rng *rand.Rand) (*HaarBooster, float64, float64, error) {
	if len(trainSamples) == 0 {
		return nil, 0, 0, ErrNoSamples
	}
	if len(valSamples) == 0 {
		return nil, 0, 0, ErrNoValidationSamples
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	solver := cfg.Solver
	if solver == nil {
		solver = numeric.ApproxAlpha{}
	}

	m := len(trainSamples)
	trainLabels := make([]float64, m)
	for i, s := range trainSamples {
		trainLabels[i] = s.Label
	}

	var cumulative []haarRound
	var pendingLearner *stump.HaarStump
	var tau, detRate, fpRate float64
	asymRoundCount := 0

	cb := boost.Callbacks{
		InitD: func(m int) []float64 {
			d := make([]float64, m)
			for i := range d {
				d[i] = 1.0 / float64(m)
			}
			if cfg.Asym != nil && !cfg.Asym.Improved {
				applyAsymWeights(d, trainLabels, cfg.Asym.K)
			}
			return d
		},
		TrainOne: func(d []float64) (any, error) {
			var st *stump.HaarStump
			var err error
			if cfg.UseGA {
				st, _, err = stump.TrainHaarStumpGA(trainSamples, d, cfg.WinH, cfg.WinW, cfg.Kind, cfg.Confidence, cfg.GAConfig, cfg.Optimizer)
			} else {
				st, _, err = stump.TrainHaarStumpExhaustive(trainSamples, d, cfg.WinH, cfg.WinW, cfg.Kind, cfg.Confidence, cfg.UseSortCache, rng)
			}
			pendingLearner = st
			return st, err
		},
		GetVals: func(learner any, d []float64) ([]float64, error) {
			st := learner.(*stump.HaarStump)
			win := numeric.WholeGridWindow(cfg.WinH, cfg.WinW)
			v := make([]float64, m)
			for i, s := range trainSamples {
				v[i] = trainLabels[i] * st.Eval(s.S, s.S2, win, 1)
			}
			return v, nil
		},
		GetAlpha: func(v, d []float64) (float64, error) {
			alpha, err := solver.Alpha(v, d)
			if err != nil {
				return 0, err
			}
			cumulative = append(cumulative, haarRound{Stump: pendingLearner, Alpha: alpha})
			return alpha, nil
		},
		UpdateD: func(d, v []float64, alpha float64) []float64 {
			out := reweight(d, v, alpha)
			asymRoundCount++
			if cfg.Asym != nil && cfg.Asym.Improved && asymRoundCount <= cfg.Asym.AsymTurn {
				step := math.Pow(cfg.Asym.K, 1.0/float64(cfg.Asym.AsymTurn))
				applyAsymWeights(out, trainLabels, step)
			}
			return out
		},
		Next: func(round int) (bool, error) {
			if round >= cfg.MaxRounds {
				return false, nil
			}
			tau, detRate, fpRate = ratioCheck(cumulative, valSamples, cfg.WinH, cfg.WinW, cfg.DMin)
			return fpRate > cfg.FMax, nil
		},
	}

	rounds, _, err := boost.Drive(m, cb)
	if err != nil {
		return nil, 0, 0, err
	}
	// GetAlpha already mirrored every non-all-pass round into cumulative;
	// only a trailing all-pass round (which bypasses GetAlpha) is missing.
	for _, r := range rounds[len(cumulative):] {
		cumulative = append(cumulative, haarRound{Stump: r.Learner.(*stump.HaarStump), Alpha: r.Alpha})
	}
	tau, detRate, fpRate = ratioCheck(cumulative, valSamples, cfg.WinH, cfg.WinW, cfg.DMin)

	return &HaarBooster{
		Rounds:     cumulative,
		Tau:        tau,
		Confidence: cfg.Confidence,
		WinH:       cfg.WinH,
		WinW:       cfg.WinW,
	}, detRate, fpRate, nil
}

// applyAsymWeights multiplies d in place by √weight for positive-labeled
// samples and 1/√weight for negative-labeled samples, then renormalizes
// (spec §4.9 asymmetric-loss reweighting).
func applyAsymWeights(d, labels []float64, weight float64) {
	sqrtW := math.Sqrt(weight)
	sum := 0.0
	for i := range d {
		if labels[i] > 0 {
			d[i] *= sqrtW
		} else {
			d[i] /= sqrtW
		}
		sum += d[i]
	}
	if sum > 0 {
		for i := range d {
			d[i] /= sum
		}
	}
}

// ratioCheck performs the cascade stage ratio check (spec §4.9): scores
// every validation sample under the cumulative rounds so far, sorts
// ascending, walks from the top down until the minimum detection quota
// is met (widening across ties), and sets τ to the midpoint between the
// flanking scores.
func ratioCheck(rounds []haarRound, valSamples []stump.HaarSample, winH, winW int, dMin float64) (tau, detRate, fpRate float64) {
	win := numeric.WholeGridWindow(winH, winW)
	type valScore struct {
		score    float64
		positive bool
	}
	scores := make([]valScore, len(valSamples))
	totalPos, totalNeg := 0, 0
	for i, s := range valSamples {
		sc := 0.0
		for _, r := range rounds {
			sc += r.Alpha * r.Stump.Eval(s.S, s.S2, win, 1)
		}
		positive := s.Label > 0
		scores[i] = valScore{score: sc, positive: positive}
		if positive {
			totalPos++
		} else {
			totalNeg++
		}
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score < scores[b].score })

	quota := int(math.Ceil(dMin * float64(totalPos)))
	posCount := 0
	idx := len(scores)
	for idx > 0 && posCount < quota {
		idx--
		if scores[idx].positive {
			posCount++
		}
	}
	for idx > 0 && scores[idx-1].score == scores[idx].score {
		idx--
		if scores[idx].positive {
			posCount++
		}
	}

	switch {
	case len(scores) == 0:
		tau = 0
	case idx == 0:
		tau = scores[0].score - config.DefaultMinInterval
	case idx == len(scores):
		tau = scores[len(scores)-1].score + config.DefaultMinInterval
	default:
		tau = (scores[idx-1].score + scores[idx].score) / 2
	}

	detPos, detNeg := 0, 0
	for _, sc := range scores {
		if sc.score > tau {
			if sc.positive {
				detPos++
			} else {
				detNeg++
			}
		}
	}
	if totalPos > 0 {
		detRate = float64(detPos) / float64(totalPos)
	}
	if totalNeg > 0 {
		fpRate = float64(detNeg) / float64(totalNeg)
	}
	return tau, detRate, fpRate
}
