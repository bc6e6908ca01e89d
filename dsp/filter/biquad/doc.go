// Package biquad implements second-order IIR filter sections (Direct Form
// II Transposed) and cascades of them, including coefficient-ramped block
// processing: a section can slide linearly from a start coefficient set to
// an end set over one tick, which is how live filter automation stays free
// of zipper artifacts.
package biquad
