// Package spectrum provides frequency-domain measurement helpers for
// rendered audio: FFT magnitude spectra and single-tone power
// detection. It exists to let tests and tools assert on what an effect
// actually did to the signal.
package spectrum
