package channel

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/envelope"
	"github.com/cwbudde/algo-droplet/dsp/filter/multimode"
	"github.com/cwbudde/algo-droplet/dsp/noise"
)

// Output is the result of one processing step.
type Output struct {
	Sample   float64
	Envelope float64
	// Active is false when the step was skipped because the channel is
	// disabled.
	Active bool
}

// Processor is one droplet channel. It is not safe for concurrent use;
// run independent channels on independent processors.
type Processor struct {
	cfg core.ProcessorConfig

	filter *multimode.Filter
	env    *envelope.Follower
	noise  *noise.Generator

	envSource  EnvelopeSource
	resetNoise bool

	envelope float64
	scratch  []float64
}

// New creates a channel processor.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f, err := multimode.New(cfg.filter...)
	if err != nil {
		return nil, fmt.Errorf("channel: filter: %w", err)
	}

	env, err := envelope.New(cfg.envelope...)
	if err != nil {
		return nil, fmt.Errorf("channel: envelope: %w", err)
	}

	pcfg := core.ApplyProcessorOptions(cfg.processor...)

	return &Processor{
		cfg:        pcfg,
		filter:     f,
		env:        env,
		noise:      noise.New(noise.WithSeed(cfg.noiseSeed)),
		envSource:  cfg.envelopeSource,
		resetNoise: cfg.resetNoise,
		scratch:    make([]float64, pcfg.BlockSize),
	}, nil
}

// Config returns the processor configuration.
func (pr *Processor) Config() core.ProcessorConfig { return pr.cfg }

// EnvelopeSource returns the configured envelope source.
func (pr *Processor) EnvelopeSource() EnvelopeSource { return pr.envSource }

// Envelope returns the envelope value of the latest active step.
func (pr *Processor) Envelope() float64 { return pr.envelope }

// Gate reports whether the trigger comparator is open.
func (pr *Processor) Gate() bool { return pr.env.Gate() }

// FilterState returns a snapshot of the filter integrators.
func (pr *Processor) FilterState() multimode.State { return pr.filter.State() }

// Initialise performs a cold reset of the filter and the envelope. The
// noise source is reset only when WithResetNoiseOnInitialise was given.
// Calling it twice in a row is the same as calling it once.
func (pr *Processor) Initialise() {
	pr.filter.Initialise()
	pr.env.Reset()
	pr.envelope = 0

	if pr.resetNoise {
		pr.noise.Reset()
	}
}

// Reset is an alias of Initialise.
func (pr *Processor) Reset() { pr.Initialise() }

// Process runs one step. A disabled step returns the zero Output and
// leaves every component untouched.
func (pr *Processor) Process(p control.Params, x float64) Output {
	if !p.Enabled {
		return Output{}
	}

	src := core.Sanitize(x)

	switch p.NoiseBlend {
	case control.BlendAdd:
		src += p.Level() * pr.noise.GenerateSample(p.NoiseMode, p.Rate())
	case control.BlendReplace:
		level := p.Level()
		src = (1-level)*src + level*pr.noise.GenerateSample(p.NoiseMode, p.Rate())
	}

	y := pr.filter.ProcessSample(p, src)

	follow := y
	if pr.envSource == PreFilter {
		follow = src
	}

	pr.envelope = pr.env.Update(p, follow)

	return Output{Sample: y, Envelope: pr.envelope, Active: true}
}

// ProcessBlock runs len(in) steps with fixed params. out must be at least
// as long as in; env may be nil, otherwise it receives the envelope of every
// step and must be at least as long as in. in and out may alias. It returns
// false, writing nothing, when the channel is disabled.
func (pr *Processor) ProcessBlock(p control.Params, in, out, env []float64) bool {
	if !p.Enabled {
		return false
	}

	n := len(in)
	if n == 0 {
		return true
	}

	_ = out[n-1]
	if env != nil {
		_ = env[n-1]
	}

	block := len(pr.scratch)

	for start := 0; start < n; start += block {
		end := min(start+block, n)
		dst := out[start:end]

		pr.blendSource(p, dst, in[start:end])

		for i, src := range dst {
			y := pr.filter.ProcessSample(p, src)

			follow := y
			if pr.envSource == PreFilter {
				follow = src
			}

			pr.envelope = pr.env.Update(p, follow)
			dst[i] = y

			if env != nil {
				env[start+i] = pr.envelope
			}
		}
	}

	return true
}

// blendSource writes the filter source for one chunk into dst.
func (pr *Processor) blendSource(p control.Params, dst, in []float64) {
	for i, x := range in {
		dst[i] = core.Sanitize(x)
	}

	if p.NoiseBlend != control.BlendAdd && p.NoiseBlend != control.BlendReplace {
		return
	}

	level := p.Level()
	noiseBuf := pr.scratch[:len(dst)]
	pr.noise.Generate(p.NoiseMode, p.Rate(), noiseBuf)
	vecmath.ScaleBlockInPlace(noiseBuf, level)

	if p.NoiseBlend == control.BlendReplace {
		vecmath.ScaleBlockInPlace(dst, 1-level)
	}

	vecmath.AddBlockInPlace(dst, noiseBuf)
}
