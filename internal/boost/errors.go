package boost

import "errors"

var (
	// ErrDiverged is returned when a round's weighted training error
	// reaches or exceeds 1/2 — boosting cannot make progress from here.
	ErrDiverged = errors.New("boost: weighted training error >= 1/2, driver diverged")

	// ErrNoSamples is returned when a driver is started over an empty D.
	ErrNoSamples = errors.New("boost: distribution D must have at least one sample")
)
