package design

import "github.com/dragoncoder047/dragonbox-sub004/dsp/core"

// Legacy simple-filter settings ranges. Older instrument configurations
// describe their EQ as a single cutoff/peak pair; the adapter below turns
// that into one canonical control point once per configuration change,
// never on the per-sample path.
const (
	LegacyCutoffRange = 11
	LegacyPeakRange   = 11
)

// FromLegacy converts the legacy two-parameter simple cut/peak filter into
// an equivalent canonical control point: a lowpass whose corner tracks the
// cutoff setting across the full frequency range and whose resonance gain
// rises with the peak setting. When an instrument carries both
// representations, the canonical one wins and this conversion is skipped.
func FromLegacy(cutoff, peak float64) ControlPoint {
	cutoff = core.Clamp(cutoff, 0, LegacyCutoffRange-1)
	peak = core.Clamp(peak, 0, LegacyPeakRange-1)

	freq := cutoff / (LegacyCutoffRange - 1) * (FreqRange - 1)
	gain := GainCenter + peak/(LegacyPeakRange-1)*(GainRange-1-GainCenter)

	return ControlPoint{
		Type: TypeLowPass,
		Freq: freq,
		Gain: gain,
	}
}
