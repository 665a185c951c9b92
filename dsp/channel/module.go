package channel

import (
	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
)

const (
	// AudioVolts is the signal level, in volts, that maps to full scale.
	AudioVolts = 5.0

	// EnvelopeGain converts the normalised envelope to volts before the
	// output is clamped to [0, EnvelopeMaxVolts].
	EnvelopeGain     = 100.0
	EnvelopeMaxVolts = 10.0
)

// Inputs holds the raw host values of one step.
type Inputs struct {
	// Connected reports whether anything is patched into the audio input.
	// A disconnected module is idle.
	Connected bool
	Audio     float64

	QCV, FreqCV                   float64
	QKnob, FreqKnob               float64
	QAttenuation, FreqAttenuation float64

	FilterMode   control.FilterMode
	EnvelopeMode control.EnvelopeMode
	NoiseMode    control.NoiseMode
	NoiseBlend   control.NoiseBlend
	NoiseLevel   float64

	SampleRate float64
}

// DefaultInputs returns the panel at its initial position with the audio
// input connected: Q knob 5, frequency knob 0, attenuators fully open.
func DefaultInputs() Inputs {
	return Inputs{
		Connected:       true,
		QKnob:           5,
		QAttenuation:    1,
		FreqAttenuation: 1,
		FilterMode:      control.FilterTwoPass,
		EnvelopeMode:    control.EnvelopeFast,
		NoiseMode:       control.NoiseBrown,
		SampleRate:      control.DefaultSampleRate,
	}
}

// Outputs holds the voltages of one step.
type Outputs struct {
	Audio    float64
	Envelope float64
	Active   bool
}

// Module adapts a Processor to a voltage-based host.
type Module struct {
	proc     *Processor
	detented bool
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithDetentedQKnob quantises the Q knob to whole volts before scaling,
// giving eleven resonance steps.
func WithDetentedQKnob(detented bool) ModuleOption {
	return func(m *Module) {
		m.detented = detented
	}
}

// NewModule creates a host adapter around a new processor.
func NewModule(procOpts []Option, opts ...ModuleOption) (*Module, error) {
	proc, err := New(procOpts...)
	if err != nil {
		return nil, err
	}

	m := &Module{proc: proc}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m, nil
}

// Processor returns the wrapped processor.
func (m *Module) Processor() *Processor { return m.proc }

// Reset handles a host reset.
func (m *Module) Reset() { m.proc.Initialise() }

// Params converts raw inputs into a control bus value.
func (m *Module) Params(in Inputs) control.Params {
	knobCode := control.ResonanceFromKnob(in.QKnob)
	if m.detented {
		knobCode = control.ResonanceFromKnobDetented(in.QKnob)
	}

	return control.Params{
		Enabled:           in.Connected,
		SampleRate:        in.SampleRate,
		FilterMode:        in.FilterMode,
		ResonanceCVCode:   control.ResonanceFromCV(in.QCV, in.QAttenuation),
		ResonanceKnobCode: knobCode,
		CutoffHz:          control.CutoffHz(in.FreqCV, in.FreqAttenuation, in.FreqKnob),
		EnvelopeMode:      in.EnvelopeMode,
		NoiseMode:         in.NoiseMode,
		NoiseBlend:        in.NoiseBlend,
		NoiseLevel:        in.NoiseLevel,
	}
}

// Step runs one processing step. A disconnected input returns inactive
// zero outputs and does not advance any state.
func (m *Module) Step(in Inputs) Outputs {
	out := m.proc.Process(m.Params(in), in.Audio/AudioVolts)
	if !out.Active {
		return Outputs{}
	}

	return Outputs{
		Audio:    out.Sample * AudioVolts,
		Envelope: EnvelopeVolts(out.Envelope),
		Active:   true,
	}
}

// EnvelopeVolts scales a normalised envelope value to the output range.
func EnvelopeVolts(env float64) float64 {
	return core.Clamp(env*EnvelopeGain, 0, EnvelopeMaxVolts)
}
