// Package noise provides the internal noise source of a droplet channel.
//
// A [Generator] produces one sample per call in one of three colours:
//
//   - white: uniform in [-1, 1], flat spectrum
//   - pink: white noise through Paul Kellet's refined 7-pole shaping filter,
//     approximating a 1/f power spectrum
//   - brown: white noise through a leaky integrator, approximating 1/f²
//     above the leak corner and clamped to [-1, 1] so it cannot drift
//
// Generators are seeded and deterministic. Their state is independent of
// any filter state.
package noise
