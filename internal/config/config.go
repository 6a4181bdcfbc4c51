// Package config centralizes the caller-tunable constants named in
// spec §6.3. Every default here matches the spec's default column;
// callers override by constructing their own value instead of mutating
// a package-level variable, so concurrent training runs never race on
// shared tuning state (the teacher's fit.ConvergenceConfig follows the
// same struct-with-defaults shape).
package config

const (
	// DefaultPC is the GA crossover probability.
	DefaultPC = 0.9
	// DefaultPM is the GA mutation probability.
	DefaultPM = 0.1
	// DefaultGenerations is the GA generation count.
	DefaultGenerations = 50
	// DefaultPopSize is the GA population size.
	DefaultPopSize = 10

	// DefaultVecSegInterval is the boundary offset applied when a
	// continuous stump's optimal split sits at either extreme of the
	// observed feature range (spec §4.3).
	DefaultVecSegInterval = 1e-3

	// DefaultMinInterval is the minimum gap enforced around a cascade
	// stage's decision threshold (spec §4.9).
	DefaultMinInterval = 1e-3

	// DefaultAsymConst is the asymmetric-loss constant k (spec §4.9).
	DefaultAsymConst = 2.0
	// DefaultAsymTurn is the asymmetric-loss delay period T_asym
	// (spec §4.9), in rounds.
	DefaultAsymTurn = 50
)

// GAConfig tunes the genetic-algorithm Haar search (spec §4.5).
// Generations and PopSize reach the wired optimizer directly (see
// opt.Tunable): TrainHaarStumpGA reconstructs its Optimizer's budget
// from these two fields on every call instead of trusting whatever was
// baked in at construction time. PC and PM describe a crossover/
// mutation-based search; the wired backend (github.com/cwbudde/mayfly)
// is a swarm algorithm with no such parameters, so the two fields are
// kept only so a future GA-style Optimizer can read them and currently
// have no effect.
type GAConfig struct {
	PC          float64
	PM          float64
	Generations int
	PopSize     int
}

// DefaultGAConfig returns the spec's default GA tuning.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PC:          DefaultPC,
		PM:          DefaultPM,
		Generations: DefaultGenerations,
		PopSize:     DefaultPopSize,
	}
}

// AsymConfig tunes the asymmetric-loss Haar booster training (spec §4.9).
type AsymConfig struct {
	K        float64
	AsymTurn int
	// Improved selects the "improved" per-round k^(1/(2*AsymTurn)) form
	// instead of the classical one-shot sqrt(k)/1/sqrt(k) reweighting.
	Improved bool
}

// DefaultAsymConfig returns the spec's default asymmetric tuning
// (classical, non-improved form).
func DefaultAsymConfig() AsymConfig {
	return AsymConfig{K: DefaultAsymConst, AsymTurn: DefaultAsymTurn}
}
