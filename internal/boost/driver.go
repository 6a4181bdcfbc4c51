package boost

import "gonum.org/v1/gonum/floats"

// Result is the outcome of a Drive call (spec §4.6).
type Result int

const (
	// ResultSuccess means every requested round ran and Next declined
	// a further round.
	ResultSuccess Result = iota
	// ResultAllPass means a round reached zero weighted training error:
	// boosting stopped early with that learner's alpha forced to 1, and
	// the caller is expected to replicate it across any remaining slots
	// (spec §4.7/§4.8).
	ResultAllPass
	// ResultFailed means a round's weighted training error reached 1/2
	// or a callback returned an error.
	ResultFailed
)

// Round is one boosting round's stored output: the trained learner
// (opaque to the driver — interpreted by the caller's callbacks) and
// its α coefficient.
type Round struct {
	Learner any
	Alpha   float64
}

// Callbacks adapts the generic driver to one classifier's sample
// layout, weak-learner trainer, and α solver (spec §4.6). TrainOne
// trains one learner against the current D. GetVals returns per-sample
// signed margins vᵢ = yᵢ·h(xᵢ) for that learner. GetAlpha computes the
// round's α from those margins and D. UpdateD reweights and
// renormalizes D for the next round. Next is consulted after a
// non-all-pass round completes; returning false ends the loop with
// ResultSuccess.
type Callbacks struct {
	InitD    func(m int) []float64
	TrainOne func(d []float64) (any, error)
	GetVals  func(learner any, d []float64) ([]float64, error)
	GetAlpha func(v, d []float64) (float64, error)
	UpdateD  func(d, v []float64, alpha float64) []float64
	Next     func(round int) (bool, error)
}

// Drive runs the boosting loop of spec §4.6 over m samples, returning
// every round stored so far (even on failure, so a caller can inspect
// partial progress) along with the terminal Result.
func Drive(m int, cb Callbacks) ([]Round, Result, error) {
	d := cb.InitD(m)
	if len(d) == 0 {
		return nil, ResultFailed, ErrNoSamples
	}

	var rounds []Round
	round := 0
	for {
		learner, err := cb.TrainOne(d)
		if err != nil {
			return rounds, ResultFailed, err
		}
		v, err := cb.GetVals(learner, d)
		if err != nil {
			return rounds, ResultFailed, err
		}

		errRate := weightedError(d, v)
		if errRate >= 0.5 {
			return rounds, ResultFailed, ErrDiverged
		}
		if errRate == 0 {
			rounds = append(rounds, Round{Learner: learner, Alpha: 1})
			return rounds, ResultAllPass, nil
		}

		alpha, err := cb.GetAlpha(v, d)
		if err != nil {
			return rounds, ResultFailed, err
		}
		rounds = append(rounds, Round{Learner: learner, Alpha: alpha})
		d = cb.UpdateD(d, v, alpha)
		round++

		ok, err := cb.Next(round)
		if err != nil {
			return rounds, ResultFailed, err
		}
		if !ok {
			return rounds, ResultSuccess, nil
		}
	}
}

// weightedError is Σᵢ Dᵢ over samples with non-positive margin
// (misclassified or exactly on the boundary), via a 0/1-indicator dot
// product against D.
func weightedError(d, v []float64) float64 {
	wrong := make([]float64, len(v))
	for i, vi := range v {
		if vi <= 0 {
			wrong[i] = 1
		}
	}
	return floats.Dot(d, wrong)
}
