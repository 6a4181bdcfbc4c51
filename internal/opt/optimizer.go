package opt

// Optimizer defines an optimization algorithm interface
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: parameter bounds
	// dim: dimensionality of parameter space
	// Returns: best parameters and best cost
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}

// Tunable is implemented by optimizers whose iteration budget can be
// rederived from a caller-supplied generation/population count rather
// than fixed at construction time. TrainHaarStumpGA type-asserts for
// this so a per-search config.GAConfig actually reaches the optimizer
// instead of being silently shadowed by whatever budget the optimizer
// was built with.
type Tunable interface {
	Optimizer
	// WithBudget returns an Optimizer that runs for generations
	// iterations over a population of popSize, leaving everything
	// else (seed, variant) unchanged.
	WithBudget(generations, popSize int) Optimizer
}
