// Package core provides numeric and buffer helpers shared by all synthesis
// and effect packages: clamping, tolerant comparison, denormal flushing,
// dB conversion, and allocation-reusing slice management.
package core
