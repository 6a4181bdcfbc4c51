package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/loader"
	"github.com/cwbudde/boostcascade/internal/store"
)

// runJob trains a cascade in the background (spec §4.10/§4.12), driven
// entirely by internal/cascade.TrainCascade's progress callback. If
// checkpointStore is not nil, the job's stage-boundary transitions are
// persisted so the job can be resumed after interruption.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("starting cascade training job", "job_id", jobID, "annotations", job.Config.AnnotationPath, "image_size", job.Config.ImageSize)

	pos, err := loader.PositiveSource(job.Config.AnnotationPath, job.Config.PositiveImageDir)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to build positive source: %w", err))
		return err
	}
	neg, err := loader.NegativeSource(job.Config.NegativeImageDir)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to build negative source: %w", err))
		return err
	}

	cfg := cascadeConfigFromJob(job.Config)
	rng := rand.New(rand.NewSource(job.Config.Seed))

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	var prefix *cascade.Cascade
	if checkpointStore != nil {
		if data, err := checkpointStore.LoadCascadeArtifact(jobID); err == nil {
			prefix, err = cascade.ReadCascade(bytes.NewReader(data), cfg.Stage.Kind, cfg.Stage.Confidence)
			if err != nil {
				slog.Warn("failed to decode resumed cascade artifact, training from scratch", "job_id", jobID, "error", err)
				prefix = nil
			}
		}
	}

	start := time.Now()
	checkpointEnabled := checkpointStore != nil && job.Config.CheckpointInterval > 0
	var lastCheckpoint time.Time

	progress := func(p cascade.Progress) {
		jm.UpdateJob(jobID, func(j *Job) {
			j.Stage = p.Stage
			j.CumDetRate = p.CumDetRate
			j.CumFPRate = p.CumFPRate
		})
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:      jobID,
			State:      StateRunning,
			Stage:      p.Stage,
			CumDetRate: p.CumDetRate,
			CumFPRate:  p.CumFPRate,
			Timestamp:  time.Now(),
		})

		if p.State != cascade.StateBootstrap && p.State != cascade.StateDone {
			return
		}
		if p.Cascade == nil {
			return
		}
		if p.State == cascade.StateBootstrap {
			if !checkpointEnabled {
				return
			}
			interval := time.Duration(job.Config.CheckpointInterval) * time.Second
			if !lastCheckpoint.IsZero() && time.Since(lastCheckpoint) < interval {
				return
			}
		}
		if checkpointStore == nil {
			return
		}
		if err := persistCascade(checkpointStore, jobID, p.Cascade, job.Config); err != nil {
			slog.Error("failed to checkpoint cascade", "job_id", jobID, "stage", p.Stage, "error", err)
			return
		}
		lastCheckpoint = time.Now()
	}

	var trained *cascade.Cascade
	if prefix != nil {
		slog.Info("resuming cascade training from checkpointed artifact", "job_id", jobID, "prefix_stages", len(prefix.Stages))
		trained, err = cascade.ResumeCascade(cfg, prefix, pos, neg, rng, progress)
	} else {
		trained, err = cascade.TrainCascade(cfg, pos, neg, rng, progress)
	}
	elapsed := time.Since(start)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("cascade training: %w", err))
		return err
	}

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	if checkpointStore != nil {
		if err := persistCascade(checkpointStore, jobID, trained, job.Config); err != nil {
			slog.Warn("failed to save final cascade artifact", "job_id", jobID, "error", err)
		}
	}

	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Stage = len(trained.Stages)
		j.CumDetRate = trained.CumDetRate
		j.CumFPRate = trained.CumFPRate
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	slog.Info("cascade training job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"stages", len(trained.Stages),
		"cum_det_rate", trained.CumDetRate,
		"cum_fp_rate", trained.CumFPRate,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:      jobID,
		State:      StateCompleted,
		Stage:      len(trained.Stages),
		CumDetRate: trained.CumDetRate,
		CumFPRate:  trained.CumFPRate,
		Timestamp:  time.Now(),
	})

	return nil
}

// cascadeConfigFromJob builds a cascade.Config from a job's tunables,
// falling back to cascade.DefaultConfig for anything the caller left
// at its zero value.
func cascadeConfigFromJob(jc JobConfig) cascade.Config {
	cfg := cascade.DefaultConfig(jc.ImageSize)
	if jc.PTarget > 0 {
		cfg.PTarget = jc.PTarget
	}
	if jc.NTarget > 0 {
		cfg.NTarget = jc.NTarget
	}
	if jc.PTrain > 0 {
		cfg.PTrain = jc.PTrain
	}
	if jc.DStar > 0 {
		cfg.DStar = jc.DStar
	}
	if jc.FStar > 0 {
		cfg.FStar = jc.FStar
	}
	if jc.FTarget > 0 {
		cfg.FTarget = jc.FTarget
	}
	if jc.MaxStages > 0 {
		cfg.MaxStages = jc.MaxStages
	}
	cfg.Stage.WinH, cfg.Stage.WinW = cfg.ImageSize, cfg.ImageSize
	return cfg
}

// persistCascade serializes c (spec §6.1) and writes both the binary
// artifact and a JSON checkpoint recording the stage boundary it was
// taken at (spec §4.12's resume story).
func persistCascade(checkpointStore store.Store, jobID string, c *cascade.Cascade, jc JobConfig) error {
	var buf bytes.Buffer
	if err := cascade.WriteCascade(&buf, c); err != nil {
		return fmt.Errorf("serialize cascade: %w", err)
	}
	if err := checkpointStore.SaveCascadeArtifact(jobID, buf.Bytes()); err != nil {
		return fmt.Errorf("save cascade artifact: %w", err)
	}
	checkpoint := store.NewCheckpoint(jobID, len(c.Stages), c.CumDetRate, c.CumFPRate, jc)
	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// markJobFailed marks a job as failed with an error message.
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("cascade training job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled.
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("cascade training job cancelled", "job_id", jobID)
}
