package classifier

import (
	"math"
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/boost"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// VectorBinaryConfig tunes vector-binary boosting (spec §4.7).
type VectorBinaryConfig struct {
	Rounds       int
	Kind         stump.Kind
	Confidence   bool
	UseSortCache bool
	// UsingFold folds α into the confidence-rated learner's own output
	// scale instead of storing a separate α array (spec §3 "using_fold");
	// the α solver is forced to numeric.UnitAlpha regardless of Solver.
	UsingFold bool
	Solver    numeric.AlphaSolver
}

// DefaultVectorBinaryConfig returns a continuous, non-folded, sort-cache
// configuration using the approximate closed-form α solver.
func DefaultVectorBinaryConfig() VectorBinaryConfig {
	return VectorBinaryConfig{
		Rounds:       50,
		Kind:         stump.KindContinuous,
		UseSortCache: true,
		Solver:       numeric.ApproxAlpha{},
	}
}

// VectorBinary is a boosted binary classifier over fixed-length feature
// vectors (spec §4.7): a contiguous array of T learners plus T α
// coefficients, or learners alone when UsingFold.
type VectorBinary struct {
	Learners   []*stump.VectorStump
	Alphas     []float64
	UsingFold  bool
	Confidence bool
}

// Score returns Σ αᵢ·hᵢ(x) (or Σ hᵢ(x) when folded): the real-valued
// margin before sign/threshold.
func (c *VectorBinary) Score(x []float64) float64 {
	score := 0.0
	for i, learner := range c.Learners {
		v := learner.Eval(x)
		if c.UsingFold {
			score += v
		} else {
			score += c.Alphas[i] * v
		}
	}
	return score
}

// Predict returns the signed classification.
func (c *VectorBinary) Predict(x []float64) float64 {
	if c.Score(x) >= 0 {
		return 1
	}
	return -1
}

// TrainVectorBinary boosts T rounds of vector stumps over x/labels under
// cfg, using the shared driver (internal/boost).
func TrainVectorBinary(x [][]float64, labels []float64, cfg VectorBinaryConfig, rng *rand.Rand) (*VectorBinary, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(labels) {
		return nil, ErrLabelMismatch
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	solver := cfg.Solver
	if cfg.UsingFold || solver == nil {
		solver = numeric.UnitAlpha{}
	}

	m := len(x)
	cb := boost.Callbacks{
		InitD: func(m int) []float64 {
			d := make([]float64, m)
			for i := range d {
				d[i] = 1.0 / float64(m)
			}
			return d
		},
		TrainOne: func(d []float64) (any, error) {
			vs, _, err := stump.TrainVectorStump(x, labels, d, cfg.Kind, cfg.Confidence, cfg.UseSortCache, rng)
			return vs, err
		},
		GetVals: func(learner any, d []float64) ([]float64, error) {
			vs := learner.(*stump.VectorStump)
			v := make([]float64, m)
			for i := range v {
				v[i] = labels[i] * vs.Eval(x[i])
			}
			return v, nil
		},
		GetAlpha: func(v, d []float64) (float64, error) { return solver.Alpha(v, d) },
		UpdateD: func(d, v []float64, alpha float64) []float64 {
			return reweight(d, v, alpha)
		},
		Next: func(round int) (bool, error) { return round < cfg.Rounds, nil },
	}

	rounds, result, err := boost.Drive(m, cb)
	if err != nil {
		return nil, err
	}

	out := &VectorBinary{UsingFold: cfg.UsingFold, Confidence: cfg.Confidence}
	for _, r := range rounds {
		out.Learners = append(out.Learners, r.Learner.(*stump.VectorStump))
		out.Alphas = append(out.Alphas, r.Alpha)
	}
	if result == boost.ResultAllPass {
		replicateLast(out, cfg.Rounds)
	}
	return out, nil
}

// reweight applies Dᵢ ← Dᵢ·exp(−α·vᵢ) and renormalizes (spec §4.6).
func reweight(d, v []float64, alpha float64) []float64 {
	out := make([]float64, len(d))
	sum := 0.0
	for i := range d {
		out[i] = d[i] * math.Exp(-alpha*v[i])
		sum += out[i]
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

// replicateLast fills a vector-binary classifier's arrays out to target
// length by repeating its last (all-pass) learner and α, per the
// storage contract of a fixed-size T-learner array (spec §4.7/§4.8).
func replicateLast(c *VectorBinary, target int) {
	if len(c.Learners) == 0 {
		return
	}
	last := c.Learners[len(c.Learners)-1]
	lastAlpha := c.Alphas[len(c.Alphas)-1]
	for len(c.Learners) < target {
		c.Learners = append(c.Learners, last)
		c.Alphas = append(c.Alphas, lastAlpha)
	}
}
