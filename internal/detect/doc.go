// Package detect scans an image with a trained cascade (spec §4.11):
// a multi-scale sliding window evaluated against every cascade stage in
// order, followed by non-maximum suppression over the surviving
// detections.
package detect
