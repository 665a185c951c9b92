package multimode

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
)

const (
	defaultMaxQ        = 25.0
	defaultMinCutoffHz = 5.0
	defaultStateLimit  = 32.0

	// MinQ is the Q at resonance code 0. A single stage is critically damped
	// there and its step response does not overshoot.
	MinQ = 0.5

	minMaxQ        = 1.0
	maxMaxQ        = 200.0
	maxMinCutoffHz = 1000.0
	minStateLimit  = 1.0
	maxStateLimit  = 1e6

	// maxNyquistFraction keeps the pre-warped frequency coefficient finite
	// and positive.
	maxNyquistFraction = 0.98

	// maxStages is the depth of the 2-pass cascade.
	maxStages = 2
)

// Response selects which state-variable output the filter returns.
type Response int

const (
	// ResponseLowpass returns the 2-pole low-pass output.
	ResponseLowpass Response = iota
	// ResponseBandpass returns the band-pass output normalised to unity gain
	// at the cutoff frequency.
	ResponseBandpass
	// ResponseHighpass returns the 2-pole high-pass output.
	ResponseHighpass
)

func (r Response) String() string {
	switch r {
	case ResponseLowpass:
		return "lowpass"
	case ResponseBandpass:
		return "bandpass"
	case ResponseHighpass:
		return "highpass"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	response    Response
	maxQ        float64
	minCutoffHz float64
	stateLimit  float64
}

func defaultConfig() config {
	return config{
		response:    ResponseLowpass,
		maxQ:        defaultMaxQ,
		minCutoffHz: defaultMinCutoffHz,
		stateLimit:  defaultStateLimit,
	}
}

// WithResponse selects the filter output.
func WithResponse(response Response) Option {
	return func(cfg *config) error {
		if response < ResponseLowpass || response > ResponseHighpass {
			return fmt.Errorf("multimode: invalid response: %d", response)
		}

		cfg.response = response

		return nil
	}
}

// WithMaxQ sets the Q reached at resonance code 4095, in [1, 200].
func WithMaxQ(q float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(q, minMaxQ, maxMaxQ, "max Q"); err != nil {
			return err
		}

		cfg.maxQ = q

		return nil
	}
}

// WithMinCutoffHz sets the lowest cutoff the engine will tune to, in (0, 1000].
func WithMinCutoffHz(hz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(hz, math.SmallestNonzeroFloat64, maxMinCutoffHz, "min cutoff"); err != nil {
			return err
		}

		cfg.minCutoffHz = hz

		return nil
	}
}

// WithStateLimit sets the absolute clip level of the integrator state.
func WithStateLimit(limit float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(limit, minStateLimit, maxStateLimit, "state limit"); err != nil {
			return err
		}

		cfg.stateLimit = limit

		return nil
	}
}

// StageState is the integrator memory of one 2-pole stage.
type StageState struct {
	IC1 float64
	IC2 float64
}

// State contains the runtime state of both cascade stages.
type State struct {
	Stages [maxStages]StageState
}

type coefficients struct {
	k  float64
	a1 float64
	a2 float64
	a3 float64
}

type tuning struct {
	cutoffHz   float64
	sampleRate float64
	code       int
	stages     int
}

// Filter is the resonant 1-pass/2-pass state-variable engine.
type Filter struct {
	response    Response
	maxQ        float64
	minCutoffHz float64
	stateLimit  float64

	state State

	tuned bool
	last  tuning
	coeff coefficients
}

// New constructs a filter engine in its initialised (silent) state.
func New(opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		response:    cfg.response,
		maxQ:        cfg.maxQ,
		minCutoffHz: cfg.minCutoffHz,
		stateLimit:  cfg.stateLimit,
	}
	f.Initialise()

	return f, nil
}

// Response returns the selected filter output.
func (f *Filter) Response() Response { return f.response }

// MaxQ returns the Q reached at full resonance.
func (f *Filter) MaxQ() float64 { return f.maxQ }

// Initialise clears all integrator memory. It must be called on cold start
// and on host reset; calling it repeatedly has no further effect.
func (f *Filter) Initialise() {
	f.state = State{}
	f.tuned = false
}

// Reset is an alias of Initialise.
func (f *Filter) Reset() { f.Initialise() }

// State returns a copy of the current integrator state.
func (f *Filter) State() State {
	return f.state
}

// SetState restores an externally saved state.
func (f *Filter) SetState(state State) error {
	for _, s := range state.Stages {
		if !core.IsFinite(s.IC1) || !core.IsFinite(s.IC2) {
			return fmt.Errorf("multimode: state contains NaN or Inf")
		}
	}

	f.state = state

	return nil
}

// ProcessSample filters one sample using the cutoff, resonance and cascade
// depth carried by p.
//
// In 1-pass mode the second stage keeps running on the first stage's output
// without contributing, so switching back to 2-pass does not replay stale
// history.
func (f *Filter) ProcessSample(p control.Params, x float64) float64 {
	if !core.IsFinite(x) {
		x = 0
	}

	f.tune(p)

	y := f.tick(&f.state.Stages[0], x)
	y2 := f.tick(&f.state.Stages[1], y)

	if f.last.stages == 1 {
		return y
	}

	return y2
}

// ProcessInPlace filters a mono buffer in place with fixed params.
func (f *Filter) ProcessInPlace(p control.Params, buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(p, buf[i])
	}
}

// StageQ returns the per-stage Q used for a combined resonance code and
// cascade depth. A 2-pass cascade uses half the exponent per stage so its
// overall peak stays comparable to the 1-pass peak.
func (f *Filter) StageQ(code, stages int) float64 {
	return stageQ(code, stages, f.maxQ)
}

// CutoffHz returns the cutoff actually used for a requested cutoff and
// sample rate. The Nyquist ceiling takes precedence over the minimum
// cutoff at very low sample rates.
func (f *Filter) CutoffHz(cutoffHz, sampleRate float64) float64 {
	rate := control.Params{SampleRate: sampleRate}.Rate()
	ceiling := maxNyquistFraction * core.ProcessorConfig{SampleRate: rate}.Nyquist()
	floor := math.Min(f.minCutoffHz, ceiling)

	if !core.IsFinite(cutoffHz) {
		return floor
	}

	return core.Clamp(cutoffHz, floor, ceiling)
}

func (f *Filter) tune(p control.Params) {
	t := tuning{
		cutoffHz:   p.CutoffHz,
		sampleRate: p.Rate(),
		code:       p.Resonance(),
		stages:     p.FilterMode.Stages(),
	}

	if f.tuned && t == f.last {
		return
	}

	fc := f.CutoffHz(t.cutoffHz, t.sampleRate)
	g := math.Tan(math.Pi * fc / t.sampleRate)
	k := 1 / stageQ(t.code, t.stages, f.maxQ)

	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1

	f.coeff = coefficients{
		k:  k,
		a1: a1,
		a2: a2,
		a3: g * a2,
	}
	f.last = t
	f.tuned = true
}

func (f *Filter) tick(s *StageState, x float64) float64 {
	c := &f.coeff

	v3 := x - s.IC2
	v1 := c.a1*s.IC1 + c.a2*v3
	v2 := s.IC2 + c.a2*s.IC1 + c.a3*v3

	s.IC1 = core.FlushDenormals(f.clipState(2*v1 - s.IC1))
	s.IC2 = core.FlushDenormals(f.clipState(2*v2 - s.IC2))

	var y float64
	switch f.response {
	case ResponseBandpass:
		y = c.k * v1
	case ResponseHighpass:
		y = x - c.k*v1 - v2
	default:
		y = v2
	}

	if !core.IsFinite(y) {
		*s = StageState{}
		return 0
	}

	return y
}

func (f *Filter) clipState(v float64) float64 {
	if v > f.stateLimit {
		return f.stateLimit
	}

	if v < -f.stateLimit {
		return -f.stateLimit
	}

	return v
}

func stageQ(code, stages int, maxQ float64) float64 {
	x := float64(core.ClampInt(code, 0, control.MaxCode)) / control.MaxCode
	if stages > 1 {
		x *= 0.5
	}

	return MinQ * math.Pow(maxQ/MinQ, x)
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !core.IsFinite(value) {
		return fmt.Errorf("multimode: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("multimode: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}
