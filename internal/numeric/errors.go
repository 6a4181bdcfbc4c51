package numeric

import "errors"

var (
	// ErrEmptyGrid indicates an operation was asked to build an integral
	// image from a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("numeric: grid must have at least one row and one column")

	// ErrRectOutOfBounds indicates a requested rectangle sum falls outside
	// the bounds of the integral image it is queried against.
	ErrRectOutOfBounds = errors.New("numeric: rectangle out of integral image bounds")

	// ErrNoBracket is returned by NewtonBisectionAlpha when the initial
	// bracket [lb, ub] does not straddle a root of f(alpha); this is the
	// open question from spec §9 — the source leaves it undefined, this
	// rewrite reports it instead of looping forever.
	ErrNoBracket = errors.New("numeric: newton-bisection alpha solver could not bracket a root")
)
