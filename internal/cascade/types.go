package cascade

import "github.com/cwbudde/boostcascade/internal/geom"

// Rect is the pixel-rectangle type shared across this package; see
// internal/geom for its definition.
type Rect = geom.Rect

// IoU returns the intersection-over-union of two rectangles (spec
// §4.11); see internal/geom.
func IoU(a, b Rect) float64 { return geom.IoU(a, b) }

// PositiveSample is one raw face crop plus the rectangle it was
// annotated with, as yielded by the caller's positive source.
type PositiveSample struct {
	Pixels [][]float64
	Rect   Rect
}

// NegativeImage is one raw background image, as yielded by the
// caller's negative source. ID distinguishes images across cycles of
// the stream so a bootstrap pass can tell when it has wrapped around
// without finding enough hard negatives. FaceRects, when non-empty,
// are regions a random negative crop must avoid overlapping (spec
// §4.10 step 1: "IoU≤0.3 against any face box") — most background
// sources leave this empty, since there is nothing to avoid.
type NegativeImage struct {
	Pixels    [][]float64
	ID        string
	FaceRects []Rect
}

// PositiveSource yields the next positive face sample (spec §4.10's
// get_face callback). It is re-entrant and may cycle indefinitely; ok
// is false only when no positive has ever been produced.
type PositiveSource func() (sample PositiveSample, ok bool, err error)

// NegativeSource yields the next background image (spec §4.10's
// get_non_face callback). It is re-entrant and may cycle indefinitely;
// ok is false only when no background image has ever been produced.
type NegativeSource func() (image NegativeImage, ok bool, err error)

// State names one point in the cascade training state machine
// (spec §4.12).
type State int

const (
	StateInit State = iota
	StateSampling
	StateStageTraining
	StateBootstrap
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSampling:
		return "sampling"
	case StateStageTraining:
		return "stage_training"
	case StateBootstrap:
		return "bootstrap"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress reports one state transition during TrainCascade, for a
// caller (e.g. internal/server) to log, broadcast, or checkpoint.
// Cascade is the cascade as trained so far (nil during StateInit and
// StateSampling, then a cascade with no stages until the first stage
// completes); a caller that wants to persist mid-run progress should
// serialize it at each StateBootstrap/StateDone transition rather than
// wait for TrainCascade to return, since a long run may never return if
// the caller is monitoring it from another goroutine.
type Progress struct {
	State      State
	Stage      int
	CumDetRate float64
	CumFPRate  float64
	Cascade    *Cascade
}
