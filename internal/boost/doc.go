// Package boost implements the reusable AdaBoost-style reweighting
// driver shared by every booster in internal/classifier (spec §4.6):
// vector-binary, vector-multiclass, and Haar all train through the same
// init/train/reweight loop, adapted to their own sample layout and α
// solver via Callbacks.
package boost
