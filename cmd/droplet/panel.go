package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cwbudde/algo-droplet/dsp/channel"
	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/signal"
)

// panelFlags mirrors the module front panel on a FlagSet.
type panelFlags struct {
	qKnob, freqKnob    float64
	qCV, freqCV        float64
	qAttn, freqAttn    float64
	filter, env, noise string
	blend              string
	level              float64
	detented           bool
	seed               uint64
	preFilterEnvelope  bool
	resetNoise         bool
}

func registerPanelFlags(fs *flag.FlagSet) *panelFlags {
	p := &panelFlags{}

	fs.Float64Var(&p.qKnob, "q", 5, "resonance knob position [0, 10]")
	fs.Float64Var(&p.freqKnob, "freq", 0, "frequency knob in octaves from middle C [-10, 10]")
	fs.Float64Var(&p.qCV, "qcv", 0, "resonance CV in volts")
	fs.Float64Var(&p.freqCV, "freqcv", 0, "frequency CV in volts (1 V/oct)")
	fs.Float64Var(&p.qAttn, "qattn", 1, "resonance CV attenuator [0, 1]")
	fs.Float64Var(&p.freqAttn, "freqattn", 1, "frequency CV attenuator [0, 1]")
	fs.StringVar(&p.filter, "filter", "2-pass", "filter mode: 2-pass, 1-pass")
	fs.StringVar(&p.env, "env", "fast", "envelope mode: fast, slow, trigger")
	fs.StringVar(&p.noise, "noise", "brown", "noise colour: brown, pink, white")
	fs.StringVar(&p.blend, "blend", "off", "noise blend: off, add, replace")
	fs.Float64Var(&p.level, "level", 0.5, "noise blend level [0, 1]")
	fs.BoolVar(&p.detented, "detented", false, "quantise the Q knob to whole volts")
	fs.Uint64Var(&p.seed, "seed", 1, "noise seed")
	fs.BoolVar(&p.preFilterEnvelope, "env-pre", false, "follow the unfiltered source instead of the output")
	fs.BoolVar(&p.resetNoise, "reset-noise", false, "re-seed noise on reset")

	return p
}

// inputs resolves the panel into host inputs at the given rate.
func (p *panelFlags) inputs(sampleRate float64) (channel.Inputs, error) {
	in := channel.DefaultInputs()
	in.SampleRate = sampleRate
	in.QKnob = p.qKnob
	in.FreqKnob = p.freqKnob
	in.QCV = p.qCV
	in.FreqCV = p.freqCV
	in.QAttenuation = p.qAttn
	in.FreqAttenuation = p.freqAttn
	in.NoiseLevel = p.level

	var err error
	if in.FilterMode, err = control.ParseFilterMode(p.filter); err != nil {
		return in, err
	}

	if in.EnvelopeMode, err = control.ParseEnvelopeMode(p.env); err != nil {
		return in, err
	}

	if in.NoiseMode, err = control.ParseNoiseMode(p.noise); err != nil {
		return in, err
	}

	if in.NoiseBlend, err = control.ParseNoiseBlend(p.blend); err != nil {
		return in, err
	}

	return in, nil
}

func (p *panelFlags) module(blockSize int) (*channel.Module, error) {
	opts := []channel.Option{
		channel.WithNoiseSeed(p.seed),
		channel.WithResetNoiseOnInitialise(p.resetNoise),
	}

	if blockSize > 0 {
		opts = append(opts, channel.WithProcessorOptions(core.WithBlockSize(blockSize)))
	}

	if p.preFilterEnvelope {
		opts = append(opts, channel.WithEnvelopeSource(channel.PreFilter))
	}

	m, err := channel.NewModule(opts, channel.WithDetentedQKnob(p.detented))
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	return m, nil
}

func logParams(verbose bool, prm control.Params) {
	if !verbose {
		return
	}

	log.Printf("Filter: %s, cutoff %.2f Hz, resonance code %d", prm.FilterMode, prm.CutoffHz, prm.Resonance())
	log.Printf("Envelope: %s", prm.EnvelopeMode)
	log.Printf("Noise: %s, blend %s at %.2f", prm.NoiseMode, prm.NoiseBlend, prm.Level())
}

// sourceFlags selects a synthetic excitation signal.
type sourceFlags struct {
	shape    string
	hz       float64
	amp      float64
	duration float64
}

func registerSourceFlags(fs *flag.FlagSet, defaultShape string) *sourceFlags {
	s := &sourceFlags{}

	fs.StringVar(&s.shape, "shape", defaultShape, "test signal: sine, saw, square, impulse, step, noise, sweep")
	fs.Float64Var(&s.hz, "hz", 110, "test signal frequency (end frequency for sweep)")
	fs.Float64Var(&s.amp, "amp", 0.5, "test signal amplitude [0, 1]")
	fs.Float64Var(&s.duration, "dur", 2, "test signal duration in seconds")

	return s
}

func (s *sourceFlags) generate(gen *signal.Generator) ([]float64, error) {
	shape, err := signal.ParseShape(s.shape)
	if err != nil {
		return nil, err
	}

	if s.duration <= 0 {
		return nil, fmt.Errorf("duration must be > 0: %g", s.duration)
	}

	n := int(s.duration * gen.Config().SampleRate)

	return gen.Generate(shape, s.hz, s.amp, n)
}
