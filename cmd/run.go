package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/classifier"
	"github.com/cwbudde/boostcascade/internal/loader"
	"github.com/cwbudde/boostcascade/internal/sample"
	"github.com/spf13/cobra"
)

var (
	cpuProfile string
	memProfile string
)

func startProfiling() (func(), error) {
	var stop func()
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to start CPU profile: %w", err)
		}
		slog.Info("CPU profiling enabled", "output", cpuProfile)
		stop = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}
	return func() {
		if stop != nil {
			stop()
		}
		if memProfile != "" {
			f, err := os.Create(memProfile)
			if err != nil {
				slog.Error("failed to create memory profile", "error", err)
				return
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				slog.Error("failed to write memory profile", "error", err)
				return
			}
			slog.Info("memory profile written", "output", memProfile)
		}
	}, nil
}

// train-vector: boosts decision stumps over a CSV feature table.
var (
	vectorTablePath string
	vectorOut       string
	vectorClasses   int
	vectorRounds    int
	vectorSeed      int64
)

var trainVectorCmd = &cobra.Command{
	Use:   "train-vector",
	Short: "Train a boosted vector-feature classifier",
	Long:  `Trains a vector-binary or vector-multiclass booster over a CSV feature table.`,
	RunE:  runTrainVector,
}

func init() {
	trainVectorCmd.Flags().StringVar(&vectorTablePath, "table", "", "CSV feature table path (required)")
	trainVectorCmd.Flags().StringVar(&vectorOut, "out", "vector.bin", "Output artifact path")
	trainVectorCmd.Flags().IntVar(&vectorClasses, "classes", 0, "Number of classes (0 = binary)")
	trainVectorCmd.Flags().IntVar(&vectorRounds, "rounds", 50, "Boosting rounds")
	trainVectorCmd.Flags().Int64Var(&vectorSeed, "seed", 42, "Random seed")
	trainVectorCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	trainVectorCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
	trainVectorCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(trainVectorCmd)
}

func runTrainVector(cmd *cobra.Command, args []string) error {
	stop, err := startProfiling()
	if err != nil {
		return err
	}
	defer stop()

	f, err := os.Open(vectorTablePath)
	if err != nil {
		return fmt.Errorf("failed to open feature table: %w", err)
	}
	defer f.Close()

	x, intLabels, err := sample.LoadVectorTable(f)
	if err != nil {
		return fmt.Errorf("failed to load feature table: %w", err)
	}
	slog.Info("loaded feature table", "rows", len(x), "dims", len(x[0]))

	rng := rand.New(rand.NewSource(vectorSeed))
	out, err := os.Create(vectorOut)
	if err != nil {
		return fmt.Errorf("failed to create output artifact: %w", err)
	}
	defer out.Close()

	start := time.Now()
	if vectorClasses > 1 {
		cfg := classifier.DefaultVectorMulticlassConfig()
		cfg.Rounds = vectorRounds
		model, err := classifier.TrainVectorMulticlass(x, intLabels, vectorClasses, cfg, rng)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}
		if err := classifier.WriteVectorMulticlass(out, model); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		slog.Info("multiclass vector booster trained", "classes", vectorClasses, "rounds", vectorRounds, "elapsed", time.Since(start))
	} else {
		labels := make([]float64, len(intLabels))
		for i, l := range intLabels {
			labels[i] = float64(l)
		}
		cfg := classifier.DefaultVectorBinaryConfig()
		cfg.Rounds = vectorRounds
		model, err := classifier.TrainVectorBinary(x, labels, cfg, rng)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}
		if err := classifier.WriteVectorBinary(out, model); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		slog.Info("binary vector booster trained", "rounds", vectorRounds, "elapsed", time.Since(start))
	}

	fmt.Printf("Wrote %s\n", vectorOut)
	return nil
}

// train-cascade: trains a full cascade detector.
var (
	annotationPath   string
	positiveImageDir string
	negativeImageDir string
	cascadeOut       string
	imageSize        int
	pTarget, nTarget int
	pTrain           float64
	dStar, fStar     float64
	fTarget          float64
	maxStages        int
	cascadeSeed      int64
)

var trainCascadeCmd = &cobra.Command{
	Use:   "train-cascade",
	Short: "Train a cascade object detector",
	Long:  `Trains a sequence of boosted Haar stages into a cascade detector.`,
	RunE:  runTrainCascade,
}

func init() {
	trainCascadeCmd.Flags().StringVar(&annotationPath, "annotations", "", "Positive-sample annotation file (required)")
	trainCascadeCmd.Flags().StringVar(&positiveImageDir, "positive-dir", "", "Directory resolving annotation filenames (required)")
	trainCascadeCmd.Flags().StringVar(&negativeImageDir, "negative-dir", "", "Directory of background PGM images (required)")
	trainCascadeCmd.Flags().StringVar(&cascadeOut, "out", "cascade.bin", "Output cascade artifact path")
	trainCascadeCmd.Flags().IntVar(&imageSize, "image-size", 24, "Training window size (square)")
	trainCascadeCmd.Flags().IntVar(&pTarget, "positives", 1000, "Initial positive sample count")
	trainCascadeCmd.Flags().IntVar(&nTarget, "negatives", 2000, "Initial negative sample count")
	trainCascadeCmd.Flags().Float64Var(&pTrain, "train-fraction", 0.7, "Fraction of samples held out for training")
	trainCascadeCmd.Flags().Float64Var(&dStar, "d-star", 0.995, "Per-stage detection-rate floor")
	trainCascadeCmd.Flags().Float64Var(&fStar, "f-star", 0.5, "Per-stage false-positive-rate ceiling")
	trainCascadeCmd.Flags().Float64Var(&fTarget, "f-target", 1e-5, "Overall cascade false-positive budget")
	trainCascadeCmd.Flags().IntVar(&maxStages, "max-stages", 30, "Maximum number of stages")
	trainCascadeCmd.Flags().Int64Var(&cascadeSeed, "seed", 42, "Random seed")
	trainCascadeCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	trainCascadeCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
	trainCascadeCmd.MarkFlagRequired("annotations")
	trainCascadeCmd.MarkFlagRequired("positive-dir")
	trainCascadeCmd.MarkFlagRequired("negative-dir")
	rootCmd.AddCommand(trainCascadeCmd)
}

func runTrainCascade(cmd *cobra.Command, args []string) error {
	stop, err := startProfiling()
	if err != nil {
		return err
	}
	defer stop()

	pos, err := loader.PositiveSource(annotationPath, positiveImageDir)
	if err != nil {
		return fmt.Errorf("failed to build positive source: %w", err)
	}
	neg, err := loader.NegativeSource(negativeImageDir)
	if err != nil {
		return fmt.Errorf("failed to build negative source: %w", err)
	}

	cfg := cascade.DefaultConfig(imageSize)
	cfg.PTarget, cfg.NTarget = pTarget, nTarget
	cfg.PTrain = pTrain
	cfg.DStar, cfg.FStar = dStar, fStar
	cfg.FTarget = fTarget
	cfg.MaxStages = maxStages

	rng := rand.New(rand.NewSource(cascadeSeed))

	start := time.Now()
	trained, err := cascade.TrainCascade(cfg, pos, neg, rng, func(p cascade.Progress) {
		slog.Info("cascade progress", "state", p.State, "stage", p.Stage, "cum_det_rate", p.CumDetRate, "cum_fp_rate", p.CumFPRate)
	})
	if err != nil {
		return fmt.Errorf("cascade training failed: %w", err)
	}
	elapsed := time.Since(start)

	out, err := os.Create(cascadeOut)
	if err != nil {
		return fmt.Errorf("failed to create output artifact: %w", err)
	}
	defer out.Close()
	if err := cascade.WriteCascade(out, trained); err != nil {
		return fmt.Errorf("failed to write cascade artifact: %w", err)
	}

	slog.Info("cascade training complete",
		"elapsed", elapsed,
		"stages", len(trained.Stages),
		"cum_det_rate", trained.CumDetRate,
		"cum_fp_rate", trained.CumFPRate,
	)
	fmt.Printf("Wrote %s (%d stages, det=%.4f fp=%.2e, %s)\n",
		cascadeOut, len(trained.Stages), trained.CumDetRate, trained.CumFPRate, elapsed)
	return nil
}
