package control

import "fmt"

// FilterMode selects the depth of the filter cascade.
// The ordering matches the front-panel switch: 2-pass first.
type FilterMode int

const (
	// FilterTwoPass runs two resonant 2-pole stages in series.
	FilterTwoPass FilterMode = iota
	// FilterOnePass runs a single resonant 2-pole stage.
	FilterOnePass

	filterModeCount
)

var filterModeNames = [filterModeCount]string{"2-pass", "1-pass"}

// String returns the panel label of the mode.
func (m FilterMode) String() string {
	if m.Valid() {
		return filterModeNames[m]
	}

	return fmt.Sprintf("FilterMode(%d)", int(m))
}

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool {
	return m >= 0 && m < filterModeCount
}

// Stages returns the number of cascaded 2-pole stages. Unknown modes fall
// back to the two-pass cascade.
func (m FilterMode) Stages() int {
	if m == FilterOnePass {
		return 1
	}

	return 2
}

// EnvelopeMode selects the response law of the envelope follower.
type EnvelopeMode int

const (
	// EnvelopeFast tracks transients with short attack and release.
	EnvelopeFast EnvelopeMode = iota
	// EnvelopeSlow tracks average energy with long attack and release.
	EnvelopeSlow
	// EnvelopeTrigger is a level detector that holds high while the input
	// stays above threshold.
	EnvelopeTrigger

	envelopeModeCount
)

var envelopeModeNames = [envelopeModeCount]string{"fast", "slow", "trigger"}

// String returns the panel label of the mode.
func (m EnvelopeMode) String() string {
	if m.Valid() {
		return envelopeModeNames[m]
	}

	return fmt.Sprintf("EnvelopeMode(%d)", int(m))
}

// Valid reports whether m is a known envelope mode.
func (m EnvelopeMode) Valid() bool {
	return m >= 0 && m < envelopeModeCount
}

// NoiseMode selects the colour of the internal noise source.
// The ordering matches the front-panel switch: brown first.
type NoiseMode int

const (
	// NoiseBrown is integrated white noise with a 1/f² spectrum.
	NoiseBrown NoiseMode = iota
	// NoisePink has a 1/f spectrum, equal energy per octave.
	NoisePink
	// NoiseWhite has a flat spectrum.
	NoiseWhite

	noiseModeCount
)

var noiseModeNames = [noiseModeCount]string{"brown", "pink", "white"}

// String returns the panel label of the mode.
func (m NoiseMode) String() string {
	if m.Valid() {
		return noiseModeNames[m]
	}

	return fmt.Sprintf("NoiseMode(%d)", int(m))
}

// Valid reports whether m is a known noise colour.
func (m NoiseMode) Valid() bool {
	return m >= 0 && m < noiseModeCount
}

// NoiseBlend selects how the noise source is combined with the input.
type NoiseBlend int

const (
	// BlendOff ignores the noise source.
	BlendOff NoiseBlend = iota
	// BlendAdd adds NoiseLevel × noise on top of the input.
	BlendAdd
	// BlendReplace crossfades from the input to noise as NoiseLevel goes 0 → 1.
	BlendReplace

	noiseBlendCount
)

var noiseBlendNames = [noiseBlendCount]string{"off", "add", "replace"}

// String returns the name of the blend policy.
func (b NoiseBlend) String() string {
	if b.Valid() {
		return noiseBlendNames[b]
	}

	return fmt.Sprintf("NoiseBlend(%d)", int(b))
}

// Valid reports whether b is a known blend policy.
func (b NoiseBlend) Valid() bool {
	return b >= 0 && b < noiseBlendCount
}

// ParseFilterMode resolves a panel label ("2-pass", "1-pass").
func ParseFilterMode(s string) (FilterMode, error) {
	for i, name := range filterModeNames {
		if s == name {
			return FilterMode(i), nil
		}
	}

	return 0, fmt.Errorf("control: unknown filter mode %q", s)
}

// ParseEnvelopeMode resolves a panel label ("fast", "slow", "trigger").
func ParseEnvelopeMode(s string) (EnvelopeMode, error) {
	for i, name := range envelopeModeNames {
		if s == name {
			return EnvelopeMode(i), nil
		}
	}

	return 0, fmt.Errorf("control: unknown envelope mode %q", s)
}

// ParseNoiseMode resolves a panel label ("brown", "pink", "white").
func ParseNoiseMode(s string) (NoiseMode, error) {
	for i, name := range noiseModeNames {
		if s == name {
			return NoiseMode(i), nil
		}
	}

	return 0, fmt.Errorf("control: unknown noise mode %q", s)
}

// ParseNoiseBlend resolves a blend policy name ("off", "add", "replace").
func ParseNoiseBlend(s string) (NoiseBlend, error) {
	for i, name := range noiseBlendNames {
		if s == name {
			return NoiseBlend(i), nil
		}
	}

	return 0, fmt.Errorf("control: unknown noise blend %q", s)
}
