// Package multimode provides the resonant filter engine of a droplet
// channel: a 2-pole topology-preserving-transform state-variable stage that
// runs either once (1-pass) or twice in series (2-pass).
//
// The engine takes its cutoff, resonance code and cascade depth from a
// [control.Params] value on every sample, so mode and parameter changes apply
// on the next sample without re-initialisation. Coefficients are recomputed
// only when those inputs change.
//
// Numeric safety:
//   - cutoff is clamped to [min cutoff, 0.49 × sample rate]
//   - the 12-bit resonance code maps onto Q in [0.5, max Q], so damping never
//     reaches zero and the stage cannot self-oscillate
//   - integrator state is clipped and flushed of denormals, and non-finite
//     input is treated as silence
//
// A Filter is single-threaded and allocation free after construction.
package multimode
