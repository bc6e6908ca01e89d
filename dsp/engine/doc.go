// Package engine ties the synthesis layers together into a playable
// instrument rack: a preallocated tone pool, per-instrument effect
// chains, and a transport-locked tick clock. Audio renders tick by
// tick; every parameter resolves once per tick into per-sample deltas,
// so rendering the same score twice yields identical samples.
package engine
