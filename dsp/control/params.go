package control

import "github.com/cwbudde/algo-droplet/dsp/core"

// DefaultSampleRate is used when a Params value carries no usable rate.
const DefaultSampleRate = 48000.0

// Params is the control bus for one processing step. The caller builds a
// fresh value every step; components only read it.
type Params struct {
	// Enabled gates the whole channel. A disabled channel produces no output
	// and leaves all component state untouched.
	Enabled bool

	// SampleRate is the current host rate in Hz.
	SampleRate float64

	FilterMode FilterMode

	// ResonanceCVCode and ResonanceKnobCode are the two 12-bit resonance
	// contributions. They are combined by Resonance.
	ResonanceCVCode   int
	ResonanceKnobCode int

	CutoffHz float64

	EnvelopeMode EnvelopeMode

	NoiseMode  NoiseMode
	NoiseBlend NoiseBlend
	// NoiseLevel is the blend amount in [0, 1].
	NoiseLevel float64
}

// DefaultParams mirrors the panel defaults: 2-pass filter, resonance knob at
// mid travel, cutoff at middle C, fast envelope, brown noise switched out.
func DefaultParams() Params {
	return Params{
		Enabled:           true,
		SampleRate:        DefaultSampleRate,
		FilterMode:        FilterTwoPass,
		ResonanceKnobCode: ResonanceFromKnob(5),
		CutoffHz:          ReferenceHz,
		EnvelopeMode:      EnvelopeFast,
		NoiseMode:         NoiseBrown,
		NoiseBlend:        BlendOff,
	}
}

// Resonance returns the combined resonance code in [0, MaxCode].
func (p Params) Resonance() int {
	return CombineResonance(p.ResonanceCVCode, p.ResonanceKnobCode)
}

// Rate returns the sample rate, falling back to DefaultSampleRate when the
// carried value is not positive and finite.
func (p Params) Rate() float64 {
	if p.SampleRate <= 0 || !core.IsFinite(p.SampleRate) {
		return DefaultSampleRate
	}

	return p.SampleRate
}

// Level returns NoiseLevel clamped to [0, 1].
func (p Params) Level() float64 {
	return core.Clamp(p.NoiseLevel, 0, 1)
}
