package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AlphaSolver computes the boosting coefficient α from per-sample signed
// margins v (v[i] = y[i]*h(x[i])) and the current distribution D
// (spec §4.2). All three solvers implement this one contract so the
// boosting driver (internal/boost) can treat them interchangeably.
type AlphaSolver interface {
	Alpha(v, d []float64) (float64, error)
}

// ApproxAlpha is the closed-form solver: α = ½·ln((1+r)/(1-r)) where
// r = Σ D[i]*v[i]. Valid when |r| < 1; the boosting driver's error-rate
// guard is what catches divergence when r strays out of range, per the
// spec's "failure modes" note in §4.2 — this solver does not itself
// validate r, it just computes whatever ln() returns.
type ApproxAlpha struct{}

func (ApproxAlpha) Alpha(v, d []float64) (float64, error) {
	r := floats.Dot(d, v)
	return 0.5 * math.Log((1+r)/(1-r)), nil
}

// UnitAlpha always returns 1; used when the coefficient is folded into a
// confidence-rated learner's outputs (spec §3 "using_fold").
type UnitAlpha struct{}

func (UnitAlpha) Alpha(v, d []float64) (float64, error) { return 1, nil }

// NewtonBisectionAlpha solves f(α) = -Σ D[i]*v[i]*exp(-α*v[i]) = 0 by
// bisection, after estimating a bracket from the signed extremes of v
// (spec §4.2). Tol is the convergence threshold on |f(mid)|; if zero,
// defaults to 1e-6 as specified.
type NewtonBisectionAlpha struct {
	Tol       float64
	MaxBisect int
}

func (n NewtonBisectionAlpha) f(alpha float64, v, d []float64) float64 {
	sum := 0.0
	for i, vi := range v {
		sum += d[i] * vi * math.Exp(-alpha*vi)
	}
	return -sum
}

func (n NewtonBisectionAlpha) Alpha(v, d []float64) (float64, error) {
	tol := n.Tol
	if tol == 0 {
		tol = 1e-6
	}
	maxIter := n.MaxBisect
	if maxIter == 0 {
		maxIter = 200
	}

	lb, ub := estimateBracket(v)

	flb := n.f(lb, v, d)
	fub := n.f(ub, v, d)
	if flb == 0 {
		return lb, nil
	}
	if fub == 0 {
		return ub, nil
	}
	if math.Signbit(flb) == math.Signbit(fub) {
		return 0, ErrNoBracket
	}

	mid := (lb + ub) / 2
	for i := 0; i < maxIter; i++ {
		mid = (lb + ub) / 2
		fmid := n.f(mid, v, d)
		if math.Abs(fmid) <= tol {
			return mid, nil
		}
		if math.Signbit(fmid) == math.Signbit(flb) {
			lb, flb = mid, fmid
		} else {
			ub, fub = mid, fmid
		}
	}
	return mid, nil
}

// estimateBracket derives an initial [lb, ub] from the signed extremes of
// v, following the source's log(r_sum+/r_sum-)/(v_extremes) heuristic
// (spec §9 open question). When v has a single sign throughout, there is
// no bracket to find — callers see ErrNoBracket from Alpha.
func estimateBracket(v []float64) (float64, float64) {
	vMax := math.Inf(-1)
	vMin := math.Inf(1)
	for _, vi := range v {
		if vi > vMax {
			vMax = vi
		}
		if vi < vMin {
			vMin = vi
		}
	}
	if vMax <= 0 || vMin >= 0 {
		// No sign change in v: the bracket heuristic from the source is
		// undefined here. Return a wide default bracket; Alpha's sign
		// check will surface ErrNoBracket if it truly doesn't straddle.
		return -10, 10
	}
	span := vMax - vMin
	bound := math.Log(1e6) / span
	return -bound, bound
}
