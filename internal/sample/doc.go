// Package sample loads the text-format collaborators named in spec
// §6.2 (PGM images, CSV vector tables) and crops/resizes raw pixels
// into the fixed S×S training window used by internal/cascade and
// internal/stump.
package sample
