// Package channel wires the droplet components into one audio channel.
//
// A [Processor] runs one step per sample: pick the source (input, noise or
// a blend), filter it, follow the envelope and report both. Parameters
// arrive as an immutable [control.Params] value per call, so the processor
// keeps no control state of its own.
//
// [Module] is the host-facing adapter. It accepts raw knob positions, CV
// voltages and attenuator settings, converts them with the control package
// and scales the results back to volts.
package channel
