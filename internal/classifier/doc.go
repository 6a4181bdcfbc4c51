// Package classifier implements the three boosted classifiers built on
// internal/boost's driver and internal/stump's weak learners: vector-
// binary (spec §4.7), vector-multiclass with Hamming loss (spec §4.8),
// and the Haar booster with decision-threshold calibration (spec §4.9).
package classifier
