// Package control holds the per-step control values of a droplet filter
// channel and the converters that turn knob positions and control voltages
// into the units the filter expects.
//
// [Params] is the control bus: an immutable value the caller builds once per
// processing step and passes to every component, instead of a shared mutable
// aggregate. The converters are pure functions:
//
//   - [ResonanceFromCV] and [ResonanceFromKnob] quantise resonance into a
//     12-bit code (0..4095) using the 409.5 codes-per-volt scale.
//   - [CombineResonance] adds the two codes and re-clamps the sum.
//   - [CutoffHz] applies the 1 V/octave law around middle C, clamping the
//     combined modulation to ±10 octaves before exponentiation.
package control
