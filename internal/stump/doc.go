// Package stump implements decision-stump weak learners (spec §3, §4.3,
// §4.4, §4.5): the four continuous/discrete × plain/confidence-rated
// variants, the exhaustive optimal-split search (sort-based and
// quickselect branch-and-bound), the discrete bucketed search, and the
// genetic-algorithm search over Haar-rectangle descriptors.
//
// A stump only knows how to classify a single scalar feature value; it
// is agnostic to whether that value came from a vector sample's feature
// index or from evaluating a Haar descriptor against an image sample's
// integral images. internal/boost drives the training loop that invokes
// these searches once per round.
package stump
