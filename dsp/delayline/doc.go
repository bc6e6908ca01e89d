// Package delayline implements the ring buffers backing every delay-based
// effect. Buffers are always sized to a power of two so index wrapping is a
// bitmask, grow with history preserved when a configuration change raises
// the required delay, and carry a dirty flag driving the lazy tail-flush
// policy at the instrument level.
package delayline
