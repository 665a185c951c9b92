// Package envelope provides the envelope follower of a droplet channel.
//
// A [Follower] rectifies its input and smooths it with one of three laws
// selected per sample by [control.Params.EnvelopeMode]:
//
//   - fast: short attack and release, follows transients
//   - slow: long attack and release, follows average energy
//   - trigger: a level detector with hysteresis; the output rises quickly to
//     1 while the input is above threshold and decays to 0 once it drops
//     below the closing threshold
//
// Times are half-lives in milliseconds. The output is normalised to [0, 1];
// scaling to an output voltage is left to the host.
package envelope
