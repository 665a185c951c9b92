package signal

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/noise"
)

// Shape selects an excitation waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSaw
	ShapeSquare
	ShapeImpulse
	ShapeStep
	ShapeNoise
	ShapeSweep
	shapeCount
)

var shapeNames = [shapeCount]string{"sine", "saw", "square", "impulse", "step", "noise", "sweep"}

func (s Shape) String() string {
	if s.Valid() {
		return shapeNames[s]
	}

	return fmt.Sprintf("Shape(%d)", int(s))
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s >= 0 && s < shapeCount
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}

	return 0, fmt.Errorf("signal: unknown shape %q", name)
}

// Generator creates deterministic excitation signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed used for noise excitation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Generate renders samples of the given shape. freqHz is the repetition
// rate for periodic shapes and the end frequency of a sweep; impulse and
// step ignore it.
func (g *Generator) Generate(shape Shape, freqHz, amplitude float64, samples int) ([]float64, error) {
	switch shape {
	case ShapeSine:
		return g.Sine(freqHz, amplitude, samples)
	case ShapeSaw:
		return g.Saw(freqHz, amplitude, samples)
	case ShapeSquare:
		return g.Square(freqHz, amplitude, samples)
	case ShapeImpulse:
		return g.Impulse(amplitude, samples)
	case ShapeStep:
		return g.Step(amplitude, samples)
	case ShapeNoise:
		return g.Noise(control.NoiseWhite, amplitude, samples)
	case ShapeSweep:
		return g.Sweep(20, freqHz, amplitude, samples)
	default:
		return nil, fmt.Errorf("signal: unknown shape %d", int(shape))
	}
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sine", samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// Saw generates a rising naive sawtooth in [-amplitude, amplitude).
func (g *Generator) Saw(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("saw", samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	inc := freqHz / g.cfg.SampleRate
	phase := 0.0

	for i := range out {
		out[i] = amplitude * (2*phase - 1)

		phase += inc
		phase -= math.Floor(phase)
	}

	return out, nil
}

// Square generates a square wave that starts high.
func (g *Generator) Square(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("square", samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	inc := freqHz / g.cfg.SampleRate
	phase := 0.0

	for i := range out {
		if phase < 0.5 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}

		phase += inc
		phase -= math.Floor(phase)
	}

	return out, nil
}

// Impulse generates a single sample of the given amplitude followed by
// silence.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if err := g.check("impulse", samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	out[0] = amplitude

	return out, nil
}

// Step generates a constant signal, the response of a system at rest to a
// unit step when amplitude is 1.
func (g *Generator) Step(amplitude float64, samples int) ([]float64, error) {
	if err := g.check("step", samples); err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude
	}

	return out, nil
}

// Sweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) Sweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sweep", samples); err != nil {
		return nil, err
	}

	if startHz <= 0 || endHz <= 0 {
		return nil, fmt.Errorf("signal: sweep frequencies must be > 0: %g..%g", startHz, endHz)
	}

	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	ratio := math.Log(endHz / startHz)

	if ratio == 0 {
		return g.Sine(startHz, amplitude, samples)
	}

	k := 2 * math.Pi * startHz * duration / ratio

	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		out[i] = amplitude * math.Sin(k*(math.Exp(t/duration*ratio)-1))
	}

	return out, nil
}

// Noise generates deterministic coloured noise in [-amplitude, amplitude].
// Every call starts from the generator seed.
func (g *Generator) Noise(mode control.NoiseMode, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("noise", samples); err != nil {
		return nil, err
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	noise.New(noise.WithSeed(g.seed)).Generate(mode, g.cfg.SampleRate, out)
	vecmath.ScaleBlockInPlace(out, amplitude)

	return out, nil
}

func (g *Generator) check(kind string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("signal: %s samples must be > 0: %d", kind, samples)
	}

	if g.cfg.SampleRate <= 0 {
		return fmt.Errorf("signal: %s sample rate must be > 0: %f", kind, g.cfg.SampleRate)
	}

	return nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	out := make([]float64, len(data))

	peak := vecmath.MaxAbs(data)
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/peak)

	return out, nil
}
