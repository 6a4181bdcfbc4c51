// Package numeric implements the leaf-level numeric kernels shared by the
// rest of the boosting stack: integral-image construction and rectangle
// sums, variance-normalized Haar feature evaluation, and the three
// interchangeable α-coefficient solvers used by the boosting driver.
//
// Nothing in this package knows about samples, weak learners, or
// boosters — it only knows about grids of numbers.
package numeric
