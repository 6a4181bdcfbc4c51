package store

import (
	"fmt"
	"time"
)

// JobConfig holds configuration for a cascade training job (checkpoint
// copy). This avoids import cycles with the server package.
type JobConfig struct {
	// AnnotationPath is the positive-sample annotation file (spec
	// §6.2: "filename x y height width" per line).
	AnnotationPath string `json:"annotationPath"`
	// PositiveImageDir resolves the annotation file's filenames.
	PositiveImageDir string `json:"positiveImageDir"`
	// NegativeImageDir holds background PGM images scanned for
	// negatives and bootstrap hard negatives.
	NegativeImageDir string `json:"negativeImageDir"`

	// ImageSize is the fixed S×S training window every stage shares.
	ImageSize int `json:"imageSize"`
	// PTarget, NTarget are the initial positive/negative sample counts.
	PTarget int `json:"pTarget"`
	NTarget int `json:"nTarget"`
	// PTrain is the fraction of the sample set held out for training.
	PTrain float64 `json:"pTrain"`
	// DStar, FStar are each stage's detection-rate floor and false-
	// positive-rate ceiling.
	DStar float64 `json:"dStar"`
	FStar float64 `json:"fStar"`
	// FTarget is the overall cascade false-positive budget.
	FTarget float64 `json:"fTarget"`
	// MaxStages bounds the stage-training loop.
	MaxStages int `json:"maxStages"`

	Seed               int64 `json:"seed"`
	CheckpointInterval int   `json:"checkpointInterval,omitempty"` // Checkpoint every N seconds (0 = disabled)
}

// Checkpoint represents a saved cascade-training state that can be
// resumed later. All fields are serialized to JSON for persistence,
// except the trained cascade itself, which the caller persists
// separately as a sibling binary artifact (spec §6.1's wire format;
// see internal/cascade.WriteCascade) since it does not fit JSON's
// text model and can be large.
//
// Resume semantics:
//
// A cascade's stage-training loop (spec §4.10/§4.12) has no natural
// mid-stage resume point the way an iterative optimizer does: a stage
// either finished training or it didn't. So a checkpoint here always
// falls on a stage boundary, and resuming means restarting
// TrainCascade's stage loop from Stage+1 against the negatives
// refilled at that point, using the persisted Cascade artifact's
// stages as the accepted prefix, rather than replaying them.
type Checkpoint struct {
	// JobID is the unique identifier for this training job.
	JobID string `json:"jobId"`

	// Stage is the number of cascade stages completed so far.
	Stage int `json:"stage"`

	// CumDetRate, CumFPRate are the cumulative detection/false-positive
	// rates after Stage stages (spec §4.10/§4.11).
	CumDetRate float64 `json:"cumDetRate"`
	CumFPRate  float64 `json:"cumFpRate"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration, needed for validation
	// during resume.
	Config JobConfig `json:"config"`
}

// CheckpointInfo contains metadata about a checkpoint without the
// full cascade artifact. Used for listing checkpoints efficiently.
type CheckpointInfo struct {
	JobID      string    `json:"jobId"`
	Stage      int       `json:"stage"`
	CumDetRate float64   `json:"cumDetRate"`
	CumFPRate  float64   `json:"cumFpRate"`
	Timestamp  time.Time `json:"timestamp"`

	// ImageSize is the job's training window size.
	ImageSize int `json:"imageSize"`
	// AnnotationPath is the positive-sample annotation file used.
	AnnotationPath string `json:"annotationPath"`
}

// NewCheckpoint creates a checkpoint from job state.
func NewCheckpoint(jobID string, stage int, cumDetRate, cumFPRate float64, config JobConfig) *Checkpoint {
	return &Checkpoint{
		JobID:      jobID,
		Stage:      stage,
		CumDetRate: cumDetRate,
		CumFPRate:  cumFPRate,
		Timestamp:  time.Now(),
		Config:     config,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:          c.JobID,
		Stage:          c.Stage,
		CumDetRate:     c.CumDetRate,
		CumFPRate:      c.CumFPRate,
		Timestamp:      c.Timestamp,
		ImageSize:      c.Config.ImageSize,
		AnnotationPath: c.Config.AnnotationPath,
	}
}

// Validate checks if the checkpoint has valid data.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Stage < 0 {
		return &ValidationError{Field: "Stage", Reason: "cannot be negative"}
	}
	if c.CumDetRate < 0 || c.CumDetRate > 1 {
		return &ValidationError{Field: "CumDetRate", Reason: "must be in [0, 1]"}
	}
	if c.CumFPRate < 0 || c.CumFPRate > 1 {
		return &ValidationError{Field: "CumFPRate", Reason: "must be in [0, 1]"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.AnnotationPath == "" {
		return &ValidationError{Field: "Config.AnnotationPath", Reason: "cannot be empty"}
	}
	if c.Config.ImageSize <= 0 {
		return &ValidationError{Field: "Config.ImageSize", Reason: "must be positive"}
	}
	if c.Config.PTarget <= 0 {
		return &ValidationError{Field: "Config.PTarget", Reason: "must be positive"}
	}
	if c.Config.NTarget <= 0 {
		return &ValidationError{Field: "Config.NTarget", Reason: "must be positive"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the
// given config.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.AnnotationPath != config.AnnotationPath {
		return &CompatibilityError{
			Field:    "AnnotationPath",
			Expected: c.Config.AnnotationPath,
			Actual:   config.AnnotationPath,
		}
	}
	if c.Config.ImageSize != config.ImageSize {
		return &CompatibilityError{
			Field:    "ImageSize",
			Expected: fmt.Sprintf("%d", c.Config.ImageSize),
			Actual:   fmt.Sprintf("%d", config.ImageSize),
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
