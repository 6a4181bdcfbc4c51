package stump

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/boostcascade/internal/config"
)

// splitResult is the outcome of an optimal-split search over one
// feature: the chosen boundary (expressed as "after" samples in
// ascending value order, where after in [0,m] means the first `after`
// sorted samples are assigned left) plus the accumulated weighted
// masses on each side and the resulting Z value.
type splitResult struct {
	after              int
	leftPos, leftNeg   float64
	rightPos, rightNeg float64
	z                  float64
}

// smoothMass applies the ε-smoothing of spec §4.3: a bin is only ever
// nudged away from exactly zero, never inflated when it already holds
// real mass.
func smoothMass(w, eps float64) float64 {
	if w == 0 {
		return eps
	}
	return w
}

func zValue(lp, ln, rp, rn, eps float64) float64 {
	return math.Sqrt(smoothMass(lp, eps)*smoothMass(ln, eps)) + math.Sqrt(smoothMass(rp, eps)*smoothMass(rn, eps))
}

func totalMasses(samples []LabeledValue) (pos, neg float64) {
	for _, s := range samples {
		if s.Label > 0 {
			pos += s.Weight
		} else {
			neg += s.Weight
		}
	}
	return pos, neg
}

// sortedSplit runs the exact O(m log m) sweep over samples pre-sorted
// ascending by Value — the "sort-based" strategy of spec §4.3, used
// when the caller supplies (or this function builds) an ascending
// value order.
func sortedSplit(values, labels, weights []float64, order []int) splitResult {
	m := len(values)
	eps := 1.0 / float64(m)
	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < m; i++ {
		if labels[i] > 0 {
			totalPos += weights[i]
		} else {
			totalNeg += weights[i]
		}
	}

	best := splitResult{z: math.Inf(1)}
	consider := func(after int, lp, ln, rp, rn float64) {
		z := zValue(lp, ln, rp, rn, eps)
		if z < best.z {
			best = splitResult{after: after, leftPos: lp, leftNeg: ln, rightPos: rp, rightNeg: rn, z: z}
		}
	}

	leftPos, leftNeg := 0.0, 0.0
	rightPos, rightNeg := totalPos, totalNeg
	for i := 0; i < m; i++ {
		idx := order[i]
		if labels[idx] > 0 {
			leftPos += weights[idx]
			rightPos -= weights[idx]
		} else {
			leftNeg += weights[idx]
			rightNeg -= weights[idx]
		}
		if i+1 == m || values[order[i+1]] != values[idx] {
			consider(i+1, leftPos, leftNeg, rightPos, rightNeg)
		}
	}
	// the before-all split is considered last, so among equal-Z
	// candidates an interior split is kept over it.
	consider(0, 0, 0, totalPos, totalNeg)
	return best
}

func argsortByValue(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
	return order
}

// quickselectSplit finds the same optimum as sortedSplit without
// requiring a precomputed order: a randomized pivot partitions the
// undetermined range into Low/Eq/High groups, the two boundary splits
// around the Eq group are evaluated exactly, and recursion into each
// side is pruned whenever its best-case Z (every remaining sample
// landing on whichever side minimizes the bound) cannot beat the
// current global best (spec §4.3).
func quickselectSplit(values, labels, weights []float64, rng *rand.Rand) splitResult {
	m := len(values)
	eps := 1.0 / float64(m)
	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < m; i++ {
		if labels[i] > 0 {
			totalPos += weights[i]
		} else {
			totalNeg += weights[i]
		}
	}

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}

	best := splitResult{z: math.Inf(1)}
	consider := func(after int, lp, ln, rp, rn float64) {
		z := zValue(lp, ln, rp, rn, eps)
		if z < best.z {
			best = splitResult{after: after, leftPos: lp, leftNeg: ln, rightPos: rp, rightNeg: rn, z: z}
		}
	}
	consider(0, 0, 0, totalPos, totalNeg)
	consider(m, totalPos, totalNeg, 0, 0)

	lowerBound := func(leftPos, leftNeg, rightPos, rightNeg, remPos, remNeg float64) float64 {
		allRight := zValue(leftPos, leftNeg, rightPos+remPos, rightNeg+remNeg, eps)
		allLeft := zValue(leftPos+remPos, leftNeg+remNeg, rightPos, rightNeg, eps)
		if allRight < allLeft {
			return allRight
		}
		return allLeft
	}

	var recurse func(lo, hi int, outerLeftPos, outerLeftNeg, outerRightPos, outerRightNeg float64)
	recurse = func(lo, hi int, outerLeftPos, outerLeftNeg, outerRightPos, outerRightNeg float64) {
		n := hi - lo
		if n <= 0 {
			return
		}
		if n <= 8 {
			// small enough: resolve exactly by local sort.
			sub := idx[lo:hi]
			sort.Slice(sub, func(a, b int) bool { return values[sub[a]] < values[sub[b]] })
			leftPos, leftNeg := outerLeftPos, outerLeftNeg
			rightPos, rightNeg := 0.0, 0.0
			for _, i := range sub {
				if labels[i] > 0 {
					rightPos += weights[i]
				} else {
					rightNeg += weights[i]
				}
			}
			rightPos += outerRightPos
			rightNeg += outerRightNeg
			for i, si := range sub {
				if labels[si] > 0 {
					leftPos += weights[si]
					rightPos -= weights[si]
				} else {
					leftNeg += weights[si]
					rightNeg -= weights[si]
				}
				if i+1 == len(sub) || values[sub[i+1]] != values[si] {
					consider(lo+i+1, leftPos, leftNeg, rightPos, rightNeg)
				}
			}
			return
		}

		pivotVal := values[idx[lo+rng.Intn(n)]]
		var low, eq, high []int
		for _, i := range idx[lo:hi] {
			switch {
			case values[i] < pivotVal:
				low = append(low, i)
			case values[i] > pivotVal:
				high = append(high, i)
			default:
				eq = append(eq, i)
			}
		}

		lowPos, lowNeg := totalMassesIdx(low, labels, weights)
		eqPos, eqNeg := totalMassesIdx(eq, labels, weights)
		highPos, highNeg := totalMassesIdx(high, labels, weights)

		// boundary before Eq group: outerLeft+Low left, Eq+High+outerRight right.
		consider(lo+len(low),
			outerLeftPos+lowPos, outerLeftNeg+lowNeg,
			eqPos+highPos+outerRightPos, eqNeg+highNeg+outerRightNeg)
		// boundary after Eq group: outerLeft+Low+Eq left, High+outerRight right.
		consider(lo+len(low)+len(eq),
			outerLeftPos+lowPos+eqPos, outerLeftNeg+lowNeg+eqNeg,
			highPos+outerRightPos, highNeg+outerRightNeg)

		if len(low) > 0 {
			lb := lowerBound(outerLeftPos, outerLeftNeg,
				eqPos+highPos+outerRightPos, eqNeg+highNeg+outerRightNeg,
				lowPos, lowNeg)
			if lb < best.z {
				copy(idx[lo:lo+len(low)], low)
				recurse(lo, lo+len(low), outerLeftPos, outerLeftNeg,
					eqPos+highPos+outerRightPos, eqNeg+highNeg+outerRightNeg)
			}
		}
		if len(high) > 0 {
			lb := lowerBound(outerLeftPos+lowPos+eqPos, outerLeftNeg+lowNeg+eqNeg,
				outerRightPos, outerRightNeg,
				highPos, highNeg)
			if lb < best.z {
				copy(idx[lo+len(low)+len(eq):hi], high)
				recurse(lo+len(low)+len(eq), hi, outerLeftPos+lowPos+eqPos, outerLeftNeg+lowNeg+eqNeg,
					outerRightPos, outerRightNeg)
			}
		}
	}

	recurse(0, m, 0, 0, 0, 0)
	return best
}

func totalMassesIdx(idx []int, labels, weights []float64) (pos, neg float64) {
	for _, i := range idx {
		if labels[i] > 0 {
			pos += weights[i]
		} else {
			neg += weights[i]
		}
	}
	return pos, neg
}

// outputsFor derives the per-side stump outputs from accumulated
// masses: plain stumps output the signed majority, confidence-rated
// stumps output the log-odds (spec §4.3).
func outputsFor(confidence bool, pos, neg, eps float64) float64 {
	if confidence {
		return 0.5 * math.Log(smoothMass(pos, eps)/smoothMass(neg, eps))
	}
	if pos >= neg {
		return 1
	}
	return -1
}

// thetaFor converts a split position (after = number of samples sorted
// ascending assigned left) into a threshold, placing it at the midpoint
// between flanking values or offset by segInterval at either extreme
// (spec §4.3, invariant in spec §3).
func thetaFor(values []float64, order []int, after int, segInterval float64) float64 {
	m := len(values)
	switch {
	case after == 0:
		return values[order[0]] - segInterval
	case after == m:
		return values[order[m-1]] + segInterval
	default:
		return (values[order[after-1]] + values[order[after]]) / 2
	}
}

// TrainContinuousSorted trains a continuous stump using the sort-based
// exact search, given samples already in (or to be put into) ascending
// value order. segInterval defaults to config.DefaultVecSegInterval
// when zero.
func TrainContinuousSorted(samples []LabeledValue, confidence bool, segInterval float64) (*Continuous, float64, error) {
	if len(samples) == 0 {
		return nil, 0, ErrNoSamples
	}
	if segInterval == 0 {
		segInterval = config.DefaultVecSegInterval
	}

	values, labels, weights := unpack(samples)
	order := argsortByValue(values)
	res := sortedSplit(values, labels, weights, order)

	eps := 1.0 / float64(len(samples))
	theta := thetaFor(values, order, res.after, segInterval)
	return &Continuous{
		Theta:      theta,
		Confidence: confidence,
		OutLow:     outputsFor(confidence, res.leftPos, res.leftNeg, eps),
		OutHigh:    outputsFor(confidence, res.rightPos, res.rightNeg, eps),
	}, res.z, nil
}

// TrainContinuousQuickselect trains a continuous stump using the
// randomized branch-and-bound quickselect search (spec §4.3), for
// callers that have no precomputed sort order over this feature.
func TrainContinuousQuickselect(samples []LabeledValue, confidence bool, segInterval float64, rng *rand.Rand) (*Continuous, float64, error) {
	if len(samples) == 0 {
		return nil, 0, ErrNoSamples
	}
	if segInterval == 0 {
		segInterval = config.DefaultVecSegInterval
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	values, labels, weights := unpack(samples)
	res := quickselectSplit(values, labels, weights, rng)

	// thetaFor needs an ascending order consistent with `after`; the
	// quickselect search reports `after` in terms of a full ascending
	// order too, so recompute it once to locate the flanking values.
	order := argsortByValue(values)
	eps := 1.0 / float64(len(samples))
	theta := thetaFor(values, order, res.after, segInterval)
	return &Continuous{
		Theta:      theta,
		Confidence: confidence,
		OutLow:     outputsFor(confidence, res.leftPos, res.leftNeg, eps),
		OutHigh:    outputsFor(confidence, res.rightPos, res.rightNeg, eps),
	}, res.z, nil
}

func unpack(samples []LabeledValue) (values, labels, weights []float64) {
	values = make([]float64, len(samples))
	labels = make([]float64, len(samples))
	weights = make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
		labels[i] = s.Label
		weights[i] = s.Weight
	}
	return
}
