package classifier

import "errors"

var (
	// ErrNoSamples is returned when training is called with an empty
	// sample set.
	ErrNoSamples = errors.New("classifier: training set must have at least one sample")

	// ErrLabelMismatch is returned when a samples/labels slice pair
	// (or a multiclass Y matrix) has inconsistent lengths.
	ErrLabelMismatch = errors.New("classifier: samples and labels have mismatched lengths")

	// ErrNoValidationSamples is returned when a Haar booster is trained
	// with an empty validation split, making the ratio check impossible.
	ErrNoValidationSamples = errors.New("classifier: haar booster requires a non-empty validation split")

	// ErrTargetsUnreachable describes a Haar booster that exhausts its
	// round budget without meeting the stage's false-positive target.
	// TrainHaarBooster does not return it: in that case it returns its
	// best-effort booster together with the realized rates.
	ErrTargetsUnreachable = errors.New("classifier: haar booster exhausted its round budget before reaching the false-positive target")
)
