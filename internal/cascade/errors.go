package cascade

import "errors"

// ErrNoPositives is returned when a positive source yields no samples
// at all (spec §4.12: INIT → FAILED, allocation failure before first
// sample is obtained).
var ErrNoPositives = errors.New("cascade: no positive samples available")

// ErrNegativesExhausted is returned when the negative image stream
// cycles without ever supplying a single background crop — the
// callback-exhaustion failure of spec §7/§4.12 that can strike before
// the first stage even starts.
var ErrNegativesExhausted = errors.New("cascade: negative image stream exhausted before any crop was obtained")
