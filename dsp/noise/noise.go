package noise

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
)

const (
	defaultSeed = 1

	// seedMix decorrelates the second PCG word from the first.
	seedMix = 0x9e3779b97f4a7c15

	pinkScale = 0.11

	// BrownLeakHz is the corner of the brown-noise leak. Below it the
	// spectrum flattens instead of rising without bound.
	BrownLeakHz = 8.0
	brownScale  = 0.5
)

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed of the random source.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// pinkState is the memory of the pink shaping filter.
type pinkState struct {
	b [7]float64
}

// Generator produces white, pink or brown noise one sample at a time.
// It allocates only in New.
type Generator struct {
	seed uint64
	src  *rand.PCG
	rng  *rand.Rand

	pink  pinkState
	brown float64

	brownRate float64
	brownLeak float64
	brownGain float64
}

// New creates a seeded generator.
func New(opts ...Option) *Generator {
	g := &Generator{seed: defaultSeed}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	g.src = rand.NewPCG(g.seed, g.seed^seedMix)
	g.rng = rand.New(g.src)

	return g
}

// Seed returns the configured seed.
func (g *Generator) Seed() uint64 { return g.seed }

// Reset re-seeds the random source and clears the colouring state, so the
// generator repeats the sequence it produced after New.
func (g *Generator) Reset() {
	g.src.Seed(g.seed, g.seed^seedMix)
	g.pink = pinkState{}
	g.brown = 0
}

// GenerateSample returns the next sample of the selected colour. The sample
// rate only affects brown noise, whose leak corner is fixed in Hz. Unknown
// modes produce white noise.
func (g *Generator) GenerateSample(mode control.NoiseMode, sampleRate float64) float64 {
	switch mode {
	case control.NoiseBrown:
		return g.nextBrown(sampleRate)
	case control.NoisePink:
		return g.nextPink()
	default:
		return g.white()
	}
}

// Generate fills buf with consecutive samples of the selected colour.
func (g *Generator) Generate(mode control.NoiseMode, sampleRate float64, buf []float64) {
	for i := range buf {
		buf[i] = g.GenerateSample(mode, sampleRate)
	}
}

func (g *Generator) white() float64 {
	return g.rng.Float64()*2 - 1
}

func (g *Generator) nextPink() float64 {
	w := g.white()
	b := &g.pink.b

	b[0] = 0.99886*b[0] + w*0.0555179
	b[1] = 0.99332*b[1] + w*0.0750759
	b[2] = 0.96900*b[2] + w*0.1538520
	b[3] = 0.86650*b[3] + w*0.3104856
	b[4] = 0.55000*b[4] + w*0.5329522
	b[5] = -0.7616*b[5] - w*0.0168980

	out := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + w*0.5362
	b[6] = w * 0.115926

	return core.Clamp(out*pinkScale, -1, 1)
}

func (g *Generator) nextBrown(sampleRate float64) float64 {
	if sampleRate != g.brownRate {
		g.tuneBrown(sampleRate)
	}

	g.brown = core.Clamp(g.brownLeak*g.brown+g.brownGain*g.white(), -1, 1)

	return g.brown
}

// tuneBrown places the integrator leak at BrownLeakHz and normalises the
// step size so the output level does not depend on the sample rate.
func (g *Generator) tuneBrown(sampleRate float64) {
	g.brownRate = sampleRate
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		sampleRate = control.DefaultSampleRate
	}

	g.brownLeak = math.Exp(-2 * math.Pi * BrownLeakHz / sampleRate)
	g.brownGain = brownScale * math.Sqrt(1-g.brownLeak*g.brownLeak)
}
