package biquad

// Chain is an ordered cascade of biquad sections processed in series. The
// EQ-filter effect uses one chain per channel, one section per control
// point, with per-tick coefficient gradients.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from zero or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Section returns a pointer to the i-th section for inspection or
// modification.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockRamp filters a block in-place while each section slides from
// its entry in "from" to its entry in "to". All three slices describe the
// same section count; SetLength establishes it.
func (c *Chain) ProcessBlockRamp(buf []float64, from, to []Coefficients) {
	for i := range c.sections {
		c.sections[i].ProcessBlockRamp(buf, from[i], to[i])
	}
}

// SetLength adjusts the section count. When the count is unchanged this is
// a no-op, preserving each section's delay-line state so a configuration
// change does not produce an output discontinuity. New sections start at
// identity with zero state.
func (c *Chain) SetLength(n int) {
	if n == len(c.sections) {
		return
	}

	if n <= cap(c.sections) {
		old := len(c.sections)
		c.sections = c.sections[:n]

		for i := old; i < n; i++ {
			c.sections[i] = Section{Coefficients: Identity()}
		}

		return
	}

	grown := make([]Section, n)
	copy(grown, c.sections)

	for i := len(c.sections); i < n; i++ {
		grown[i] = Section{Coefficients: Identity()}
	}

	c.sections = grown
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}
