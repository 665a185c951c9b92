package control

import (
	"math"

	"github.com/cwbudde/algo-droplet/dsp/core"
)

const (
	// MaxCode is the top of the 12-bit resonance code space.
	MaxCode = 4095

	// ResonanceScale maps 10 V of resonance control onto the 12-bit code
	// space (4095 / 10).
	ResonanceScale = 409.5

	// MaxOctaves bounds the combined cutoff modulation (knob + attenuated CV)
	// in volts, i.e. octaves above or below ReferenceHz.
	MaxOctaves = 10.0

	// ReferenceHz is the cutoff at 0 V: middle C.
	ReferenceHz = 261.6256
)

// ResonanceFromCV quantises an attenuated resonance CV into a 12-bit code.
// Negative voltages map to 0 and anything above 10 V to MaxCode.
func ResonanceFromCV(cv, attenuation float64) int {
	return quantise(cv * attenuation)
}

// ResonanceFromKnob quantises a resonance knob position in [0, 10] into a
// 12-bit code.
func ResonanceFromKnob(knob float64) int {
	return quantise(knob)
}

// ResonanceFromKnobDetented quantises the knob like a stepped panel control:
// the position is truncated to whole volts before scaling, so the knob only
// reaches eleven distinct codes.
func ResonanceFromKnobDetented(knob float64) int {
	if !core.IsFinite(knob) {
		return 0
	}

	return quantise(math.Trunc(knob))
}

// CombineResonance adds the CV and knob codes and clamps the sum back into
// the 12-bit range. Each half may already be at full scale, so the sum is
// never assumed to fit.
func CombineResonance(cvCode, knobCode int) int {
	return core.ClampInt(core.ClampInt(cvCode, 0, MaxCode)+core.ClampInt(knobCode, 0, MaxCode), 0, MaxCode)
}

// CutoffOctaves returns the combined modulation depth in octaves, clamped to
// ±MaxOctaves. A non-finite sum is treated as 0 V.
func CutoffOctaves(cv, attenuation, knob float64) float64 {
	v := cv*attenuation + knob
	if !core.IsFinite(v) {
		return 0
	}

	return core.Clamp(v, -MaxOctaves, MaxOctaves)
}

// CutoffHz converts knob and attenuated CV to a cutoff frequency using the
// 1 V/octave law. The exponent is clamped before exponentiation, so the
// result always lies in [ReferenceHz/1024, ReferenceHz*1024].
func CutoffHz(cv, attenuation, knob float64) float64 {
	return ReferenceHz * math.Exp2(CutoffOctaves(cv, attenuation, knob))
}

// MinCutoffHz and MaxCutoffHz bound the output of CutoffHz.
const (
	MinCutoffHz = ReferenceHz / 1024
	MaxCutoffHz = ReferenceHz * 1024
)

func quantise(volts float64) int {
	if !core.IsFinite(volts) {
		if math.IsInf(volts, 1) {
			return MaxCode
		}

		return 0
	}

	return int(core.Clamp(volts*ResonanceScale, 0, MaxCode))
}
