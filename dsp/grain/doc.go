// Package grain implements the granular synthesizer's voice pool: a
// fixed-capacity arena of overlapping grains with parabolic or
// raised-cosine-bell amplitude envelopes, bounded probabilistic spawning,
// and swap-with-last retirement. Nothing here allocates after the pool is
// constructed.
package grain
