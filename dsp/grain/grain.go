package grain

import "math"

// EnvelopeShape selects a grain's amplitude envelope.
type EnvelopeShape int

const (
	// EnvelopeParabolic evolves via a second-order recurrence: zero at
	// both ends, peaking at the configured amplitude at the midpoint.
	EnvelopeParabolic EnvelopeShape = iota
	// EnvelopeRaisedCosineBell ramps with a cosine over the first and
	// last sixth of the grain and holds flat in between.
	EnvelopeRaisedCosineBell
)

// Grain is one overlapping granular-synthesis voice reading from the
// granular delay line.
type Grain struct {
	// Position is the fractional read offset into the granular buffer,
	// in samples behind the write cursor.
	Position float64
	// Delay is an added pre-delay in samples; the grain stays silent and
	// does not age until it has counted down.
	Delay int

	AgeInSamples    int
	MaxAgeInSamples int

	shape     EnvelopeShape
	amplitude float64
	slope     float64
	curvature float64
	peak      float64
}

// InitParabolic configures the second-order recurrence so the envelope is
// zero at age 0 and at maxAge, with its peak at the midpoint.
func (g *Grain) InitParabolic(maxAge int, peak float64) {
	if maxAge < 1 {
		maxAge = 1
	}

	g.shape = EnvelopeParabolic
	g.MaxAgeInSamples = maxAge
	g.AgeInSamples = 0
	g.peak = peak

	inv := 1 / float64(maxAge)
	g.amplitude = 0
	g.slope = 4 * peak * (inv - inv*inv)
	g.curvature = -8 * peak * inv * inv
}

// InitRaisedCosineBell configures the bell envelope: cosine attack over
// the first sixth of the duration, flat sustain, cosine release over the
// last sixth.
func (g *Grain) InitRaisedCosineBell(maxAge int, peak float64) {
	if maxAge < 1 {
		maxAge = 1
	}

	g.shape = EnvelopeRaisedCosineBell
	g.MaxAgeInSamples = maxAge
	g.AgeInSamples = 0
	g.peak = peak
	g.amplitude = 0
	g.slope = 0
	g.curvature = 0
}

// Envelope returns the amplitude at the grain's current age.
func (g *Grain) Envelope() float64 {
	if g.shape == EnvelopeParabolic {
		return g.amplitude
	}

	edge := g.MaxAgeInSamples / 6
	if edge < 1 {
		return g.peak
	}

	switch {
	case g.AgeInSamples < edge:
		phase := math.Pi * float64(g.AgeInSamples) / float64(edge)
		return g.peak * 0.5 * (1 - math.Cos(phase))
	case g.AgeInSamples > g.MaxAgeInSamples-edge:
		remaining := g.MaxAgeInSamples - g.AgeInSamples
		phase := math.Pi * float64(remaining) / float64(edge)

		return g.peak * 0.5 * (1 - math.Cos(phase))
	default:
		return g.peak
	}
}

// Advance ages the grain by one sample and reports whether it is still
// live. Parabolic amplitude advances by its recurrence.
func (g *Grain) Advance() bool {
	if g.shape == EnvelopeParabolic {
		g.amplitude += g.slope
		g.slope += g.curvature

		if g.amplitude < 0 {
			g.amplitude = 0
		}
	}

	g.AgeInSamples++

	return g.AgeInSamples <= g.MaxAgeInSamples
}
