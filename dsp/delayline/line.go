package delayline

import (
	"math"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/interp"
)

// minCapacity is the smallest buffer a Line will allocate. Requests below
// this (including negative or non-finite sample counts arriving from live
// modulation) are clamped here instead of propagating into sample math.
const minCapacity = 2

// FitCapacity returns the smallest power of two >= n, never below the
// minimum safe size. Power-of-two lengths let every read and write wrap
// with a single bitmask instead of a modulo.
func FitCapacity(n int) int {
	if n < minCapacity {
		n = minCapacity
	}

	size := minCapacity
	for size < n {
		size <<= 1
	}

	return size
}

// FitSampleCount converts a possibly fractional, possibly non-finite delay
// length in samples into a safe integer capacity request.
func FitSampleCount(samples float64) int {
	if math.IsNaN(samples) || math.IsInf(samples, 0) || samples < 0 {
		return minCapacity
	}

	return int(math.Ceil(samples))
}

// Line is a power-of-two-sized circular delay buffer. Every delay-based
// effect (panning width, chorus, flanger, echo, reverb, granular) owns one
// or more Lines; none are shared across instruments.
type Line struct {
	buffer []float64
	mask   int
	pos    int
	dirty  bool
}

// New returns a zeroed Line whose capacity is the smallest power of two
// that holds at least minSamples.
func New(minSamples int) *Line {
	size := FitCapacity(minSamples)

	return &Line{
		buffer: make([]float64, size),
		mask:   size - 1,
	}
}

// Len returns the allocated buffer length (always a power of two).
func (l *Line) Len() int {
	return len(l.buffer)
}

// Mask returns the index wrap mask (Len - 1).
func (l *Line) Mask() int {
	return l.mask
}

// Samples exposes the raw buffer for inner processing loops. Callers index
// with Mask and commit the cursor back through SetWriteIndex.
func (l *Line) Samples() []float64 {
	return l.buffer
}

// WriteIndex returns the current write cursor.
func (l *Line) WriteIndex() int {
	return l.pos
}

// SetWriteIndex commits a write cursor advanced by an inner loop.
func (l *Line) SetWriteIndex(pos int) {
	l.pos = pos & l.mask
}

// Write appends one sample and advances the cursor.
func (l *Line) Write(sample float64) {
	l.buffer[l.pos] = sample
	l.pos = (l.pos + 1) & l.mask
	l.dirty = true
}

// Read returns the sample written delay steps ago. delay 1 is the most
// recent sample; delay 0 reads the slot about to be overwritten.
func (l *Line) Read(delay int) float64 {
	return l.buffer[(l.pos-delay)&l.mask]
}

// ReadFractional reads with linear interpolation between the two samples
// straddling the fractional delay.
func (l *Line) ReadFractional(delay float64) float64 {
	if delay < 0 {
		delay = 0
	}

	whole := int(delay)
	frac := delay - float64(whole)

	x0 := l.buffer[(l.pos-whole)&l.mask]
	x1 := l.buffer[(l.pos-whole-1)&l.mask]

	return interp.Linear2(frac, x0, x1)
}

// EnsureCapacity grows the buffer when minSamples exceeds the current
// length. The new buffer is at least double the requirement so that a
// slowly rising delay (tempo drift, live modulation) does not reallocate
// every tick. Existing history is copied oldest-to-newest into the new
// buffer so in-flight echoes and reverberation continue unchanged: reading
// any logical delay after the resize returns the same value as before.
// Shrinking never happens; an oversized buffer is harmless.
func (l *Line) EnsureCapacity(minSamples int) {
	if minSamples <= len(l.buffer) {
		return
	}

	size := FitCapacity(2 * minSamples)
	grown := make([]float64, size)
	grownMask := size - 1

	for i := 1; i <= len(l.buffer); i++ {
		grown[(l.pos-i)&grownMask] = l.buffer[(l.pos-i)&l.mask]
	}

	l.buffer = grown
	l.mask = grownMask
	l.pos &= grownMask
}

// Dirty reports whether the buffer has been written since the last Flush.
func (l *Line) Dirty() bool {
	return l.dirty
}

// MarkDirty records that an inner loop wrote through Samples directly.
func (l *Line) MarkDirty() {
	l.dirty = true
}

// Flush zeroes the buffer and marks it clean. The instrument-level flush
// policy calls this once a decaying tail has become inaudible; clean
// buffers are skipped entirely on later ticks.
func (l *Line) Flush() {
	if !l.dirty {
		return
	}

	for i := range l.buffer {
		l.buffer[i] = 0
	}

	l.dirty = false
}
