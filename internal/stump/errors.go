package stump

import "errors"

var (
	// ErrNoSamples indicates a training search was invoked with zero
	// samples to split.
	ErrNoSamples = errors.New("stump: cannot train on zero samples")

	// ErrDegenerateWeight names the case of a D-weighted mass collapsed
	// to zero on every candidate split. No training function in this
	// package returns it: the ε smoothing in §4.3/§4.4 keeps every Z
	// term positive.
	ErrDegenerateWeight = errors.New("stump: degenerate zero-mass split")

	// ErrNoValidDescriptor indicates a Haar search (exhaustive or GA)
	// produced no descriptor satisfying the window-bounds invariant.
	ErrNoValidDescriptor = errors.New("stump: no valid haar descriptor in search space")
)
