package classifier

import (
	"math/rand"

	"github.com/cwbudde/boostcascade/internal/boost"
	"github.com/cwbudde/boostcascade/internal/numeric"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// VectorMulticlassConfig tunes Hamming-loss multiclass boosting (spec §4.8).
type VectorMulticlassConfig struct {
	Rounds       int
	Kind         stump.Kind
	Confidence   bool
	UseSortCache bool
	Solver       numeric.AlphaSolver
}

// DefaultVectorMulticlassConfig mirrors DefaultVectorBinaryConfig's tuning.
func DefaultVectorMulticlassConfig() VectorMulticlassConfig {
	return VectorMulticlassConfig{
		Rounds:       50,
		Kind:         stump.KindContinuous,
		UseSortCache: true,
		Solver:       numeric.ApproxAlpha{},
	}
}

// classGroup is one boosting round's K-wide slot: one learner per class
// row (spec §4.8).
type classGroup struct {
	Learners []*stump.VectorStump
}

// VectorMulticlass is a Hamming-loss boosted multiclass classifier
// (spec §4.8): K rows, each a sequence of per-round groups sharing one
// α coefficient per round.
type VectorMulticlass struct {
	K      int
	Groups []*classGroup
	Alphas []float64
	// UsingFold mirrors the vector-binary booster's storage choice
	// (spec §6.1); TrainVectorMulticlass always produces an unfolded
	// booster, but the field is carried so a folded model built some
	// other way still round-trips through the wire format.
	UsingFold bool
}

// Scores returns one real-valued score per class, Σₜ αₜ·hⱼₜ(x).
func (c *VectorMulticlass) Scores(x []float64) []float64 {
	scores := make([]float64, c.K)
	for t, g := range c.Groups {
		for j, learner := range g.Learners {
			scores[j] += c.Alphas[t] * learner.Eval(x)
		}
	}
	return scores
}

// Predict returns the argmax class index.
func (c *VectorMulticlass) Predict(x []float64) int {
	scores := c.Scores(x)
	best := 0
	for j := 1; j < len(scores); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	return best
}

// TrainVectorMulticlass boosts K one-vs-rest learner groups over
// x/labels (class indices in [0, K)) via the shared driver.
func TrainVectorMulticlass(x [][]float64, labels []int, k int, cfg VectorMulticlassConfig, rng *rand.Rand) (*VectorMulticlass, error) {
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
	if solver == nil {
		solver = numeric.ApproxAlpha{}
	}

	m := len(x)
	y := make([][]float64, k)
	for j := range y {
		y[j] = make([]float64, m)
		for i, lbl := range labels {
			if lbl == j {
				y[j][i] = 1
			} else {
				y[j][i] = -1
			}
		}
	}

	cb := boost.Callbacks{
		InitD: func(n int) []float64 {
			d := make([]float64, k*m)
			for i := range d {
				d[i] = 1.0 / float64(k*m)
			}
			return d
		},
		TrainOne: func(d []float64) (any, error) {
			g := &classGroup{Learners: make([]*stump.VectorStump, k)}
			for j := 0; j < k; j++ {
				seg := d[j*m : (j+1)*m]
				vs, _, err := stump.TrainVectorStump(x, y[j], seg, cfg.Kind, cfg.Confidence, cfg.UseSortCache, rng)
				if err != nil {
					return nil, err
				}
				g.Learners[j] = vs
			}
			return g, nil
		},
		GetVals: func(learner any, d []float64) ([]float64, error) {
			g := learner.(*classGroup)
			v := make([]float64, k*m)
			for j := 0; j < k; j++ {
				for i := 0; i < m; i++ {
					v[j*m+i] = g.Learners[j].Eval(x[i]) * y[j][i]
				}
			}
			return v, nil
		},
		GetAlpha: func(v, d []float64) (float64, error) { return solver.Alpha(v, d) },
		UpdateD: func(d, v []float64, alpha float64) []float64 {
			return reweight(d, v, alpha)
		},
		Next: func(round int) (bool, error) { return round < cfg.Rounds, nil },
	}

	rounds, result, err := boost.Drive(k*m, cb)
	if err != nil {
		return nil, err
	}

	out := &VectorMulticlass{K: k}
	for _, r := range rounds {
		out.Groups = append(out.Groups, r.Learner.(*classGroup))
		out.Alphas = append(out.Alphas, r.Alpha)
	}
	if result == boost.ResultAllPass {
		replicateLastGroup(out, cfg.Rounds)
	}
	return out, nil
}

// replicateLastGroup fills a multiclass classifier's rounds out to
// target length by repeating its last (all-pass) group and α.
func replicateLastGroup(c *VectorMulticlass, target int) {
	if len(c.Groups) == 0 {
		return
	}
	last := c.Groups[len(c.Groups)-1]
	lastAlpha := c.Alphas[len(c.Alphas)-1]
	for len(c.Groups) < target {
		c.Groups = append(c.Groups, last)
		c.Alphas = append(c.Alphas, lastAlpha)
	}
}
