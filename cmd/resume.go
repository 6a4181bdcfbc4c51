package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/loader"
	"github.com/cwbudde/boostcascade/internal/store"
	"github.com/spf13/cobra"
)

var (
	resumeServerURL string
	resumeLocalMode bool
	resumeOutputDir string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume cascade training from a checkpoint",
	Long: `Resume a cascade training job from a saved checkpoint.

Supports two modes:
  1. Server mode (default): POST to server's resume endpoint
  2. Local mode (--local): load the checkpoint and cascade artifact and
     continue training locally

Examples:
  # Resume via server
  boostcascade resume abc123 --server-url http://localhost:8080

  # Resume locally
  boostcascade resume abc123 --local --output ./resumed`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server-url", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Run resume locally instead of via server")
	resumeCmd.Flags().StringVar(&resumeOutputDir, "output", "./resumed", "Output directory for local mode")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

// runResumeServer sends a resume request to the server.
func runResumeServer(jobID string) error {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/resume", resumeServerURL, jobID)

	slog.Info("resuming job via server", "job_id", jobID, "url", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		JobID   string `json:"jobId"`
		State   string `json:"state"`
		Message string `json:"message,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Job resumed successfully\n")
	fmt.Printf("  Job ID: %s\n", result.JobID)
	fmt.Printf("  State: %s\n", result.State)
	if result.Message != "" {
		fmt.Printf("  Message: %s\n", result.Message)
	}
	fmt.Printf("\nUse 'boostcascade status %s' to monitor progress\n", result.JobID)

	return nil
}

// runResumeLocal loads a checkpoint and its cascade artifact and
// continues stage training locally via cascade.ResumeCascade.
func runResumeLocal(jobID string) error {
	slog.Info("resuming job locally", "job_id", jobID)

	checkpointStore, err := store.NewFSStore("./data")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", checkpoint.JobID)
	fmt.Printf("  Stage: %d\n", checkpoint.Stage)
	fmt.Printf("  Cumulative detection rate: %.4f\n", checkpoint.CumDetRate)
	fmt.Printf("  Cumulative false-positive rate: %.2e\n", checkpoint.CumFPRate)
	fmt.Printf("  Checkpoint time: %s\n\n", checkpoint.Timestamp.Format(time.RFC3339))

	cfg := cascade.DefaultConfig(checkpoint.Config.ImageSize)
	cfg.PTarget, cfg.NTarget = checkpoint.Config.PTarget, checkpoint.Config.NTarget
	cfg.PTrain = checkpoint.Config.PTrain
	cfg.DStar, cfg.FStar = checkpoint.Config.DStar, checkpoint.Config.FStar
	cfg.FTarget = checkpoint.Config.FTarget
	cfg.MaxStages = checkpoint.Config.MaxStages

	artifact, err := checkpointStore.LoadCascadeArtifact(jobID)
	if err != nil {
		return fmt.Errorf("failed to load cascade artifact: %w", err)
	}
	prefix, err := cascade.ReadCascade(bytes.NewReader(artifact), cfg.Stage.Kind, cfg.Stage.Confidence)
	if err != nil {
		return fmt.Errorf("failed to decode cascade artifact: %w", err)
	}

	pos, err := loader.PositiveSource(checkpoint.Config.AnnotationPath, checkpoint.Config.PositiveImageDir)
	if err != nil {
		return fmt.Errorf("failed to build positive source: %w", err)
	}
	neg, err := loader.NegativeSource(checkpoint.Config.NegativeImageDir)
	if err != nil {
		return fmt.Errorf("failed to build negative source: %w", err)
	}

	fmt.Printf("Resuming cascade training from stage %d...\n", checkpoint.Stage)
	start := time.Now()

	rng := rand.New(rand.NewSource(checkpoint.Config.Seed))
	resumed, err := cascade.ResumeCascade(cfg, prefix, pos, neg, rng, func(p cascade.Progress) {
		slog.Info("cascade progress", "state", p.State, "stage", p.Stage, "cum_det_rate", p.CumDetRate, "cum_fp_rate", p.CumFPRate)
	})
	if err != nil {
		return fmt.Errorf("resume failed: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("\nResume completed in %s\n", elapsed)
	fmt.Printf("  Stages: %d -> %d\n", checkpoint.Stage, len(resumed.Stages))
	fmt.Printf("  Cumulative false-positive rate: %.2e -> %.2e\n", checkpoint.CumFPRate, resumed.CumFPRate)

	if err := os.MkdirAll(resumeOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var encoded bytes.Buffer
	if err := cascade.WriteCascade(&encoded, resumed); err != nil {
		return fmt.Errorf("failed to serialize cascade artifact: %w", err)
	}

	outPath := filepath.Join(resumeOutputDir, fmt.Sprintf("%s_resumed.bin", jobID))
	if err := os.WriteFile(outPath, encoded.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output artifact: %w", err)
	}
	fmt.Printf("\nOutput saved to: %s\n", outPath)

	if err := checkpointStore.SaveCascadeArtifact(jobID, encoded.Bytes()); err != nil {
		slog.Warn("failed to update cascade artifact", "error", err)
	}
	updated := store.NewCheckpoint(jobID, len(resumed.Stages), resumed.CumDetRate, resumed.CumFPRate, checkpoint.Config)
	if err := checkpointStore.SaveCheckpoint(jobID, updated); err != nil {
		slog.Warn("failed to update checkpoint", "error", err)
	} else {
		fmt.Printf("Checkpoint updated\n")
	}

	return nil
}
