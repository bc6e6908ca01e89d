// Package design computes biquad coefficients from musical filter
// descriptions: RBJ second-order designs, first-order shelf variants used
// inside echo and reverb feedback, the canonical control-point model for
// the EQ effect, and the adapter that converts the legacy simple
// cutoff/peak representation into a control point.
package design
