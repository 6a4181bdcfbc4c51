// Package cascade trains a sequence of Haar boosters into a cascade
// classifier (spec §4.10), driving the stage-training/bootstrap state
// machine of spec §4.12 on top of internal/classifier's per-stage
// Haar booster trainer.
package cascade
