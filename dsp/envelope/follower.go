package envelope

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
)

const (
	defaultFastAttackMs     = 1.0
	defaultFastReleaseMs    = 25.0
	defaultSlowAttackMs     = 30.0
	defaultSlowReleaseMs    = 400.0
	defaultTriggerThreshold = 0.1
	defaultTriggerAttackMs  = 1.0
	defaultTriggerReleaseMs = 10.0
	defaultHysteresis       = 0.9

	// The trigger comparator looks at a peak detector rather than the raw
	// rectified signal so a sine above threshold keeps the gate open.
	detectorAttackMs  = 0.1
	detectorReleaseMs = 10.0

	minTimeMs = 0.01
	maxTimeMs = 10000.0

	minThreshold = 1e-6
	maxThreshold = 1.0
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	fastAttackMs     float64
	fastReleaseMs    float64
	slowAttackMs     float64
	slowReleaseMs    float64
	triggerThreshold float64
	triggerAttackMs  float64
	triggerReleaseMs float64
	hysteresis       float64
}

func defaultConfig() config {
	return config{
		fastAttackMs:     defaultFastAttackMs,
		fastReleaseMs:    defaultFastReleaseMs,
		slowAttackMs:     defaultSlowAttackMs,
		slowReleaseMs:    defaultSlowReleaseMs,
		triggerThreshold: defaultTriggerThreshold,
		triggerAttackMs:  defaultTriggerAttackMs,
		triggerReleaseMs: defaultTriggerReleaseMs,
		hysteresis:       defaultHysteresis,
	}
}

// WithFast sets attack and release half-lives of the fast law.
func WithFast(attackMs, releaseMs float64) Option {
	return func(cfg *config) error {
		if err := validateTimes(attackMs, releaseMs, "fast"); err != nil {
			return err
		}

		cfg.fastAttackMs, cfg.fastReleaseMs = attackMs, releaseMs

		return nil
	}
}

// WithSlow sets attack and release half-lives of the slow law.
func WithSlow(attackMs, releaseMs float64) Option {
	return func(cfg *config) error {
		if err := validateTimes(attackMs, releaseMs, "slow"); err != nil {
			return err
		}

		cfg.slowAttackMs, cfg.slowReleaseMs = attackMs, releaseMs

		return nil
	}
}

// WithTrigger sets the rise and fall half-lives of the trigger law.
func WithTrigger(attackMs, releaseMs float64) Option {
	return func(cfg *config) error {
		if err := validateTimes(attackMs, releaseMs, "trigger"); err != nil {
			return err
		}

		cfg.triggerAttackMs, cfg.triggerReleaseMs = attackMs, releaseMs

		return nil
	}
}

// WithThreshold sets the linear level at which the trigger opens.
func WithThreshold(level float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(level) || level < minThreshold || level > maxThreshold {
			return fmt.Errorf("envelope: threshold must be in [%g, %g]: %f", minThreshold, maxThreshold, level)
		}

		cfg.triggerThreshold = level

		return nil
	}
}

// WithThresholdDB sets the trigger threshold in dBFS.
func WithThresholdDB(db float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(db) {
			return fmt.Errorf("envelope: threshold must be finite: %f", db)
		}

		return WithThreshold(core.DBToLinear(db))(cfg)
	}
}

// WithHysteresis sets the closing threshold as a fraction of the opening
// threshold, in (0, 1]. The default 0.9 only debounces ripple; smaller
// ratios hold the gate open for inputs that settle between the two levels.
func WithHysteresis(ratio float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(ratio) || ratio <= 0 || ratio > 1 {
			return fmt.Errorf("envelope: hysteresis must be in (0, 1]: %f", ratio)
		}

		cfg.hysteresis = ratio

		return nil
	}
}

// ballistics holds one attack/release coefficient pair.
type ballistics struct {
	attack  float64
	release float64
}

func newBallistics(attackMs, releaseMs, sampleRate float64) ballistics {
	return ballistics{
		attack:  1.0 - math.Exp(-math.Ln2/(attackMs*0.001*sampleRate)),
		release: math.Exp(-math.Ln2 / (releaseMs * 0.001 * sampleRate)),
	}
}

func (b ballistics) follow(env, source float64) float64 {
	if source > env {
		return env + (source-env)*b.attack
	}

	return source + (env-source)*b.release
}

// Follower is a stateful rectify-and-smooth envelope detector.
//
// It is single-threaded; one Follower belongs to one channel.
type Follower struct {
	cfg config

	sampleRate float64
	fast       ballistics
	slow       ballistics
	trigger    ballistics
	detector   ballistics

	value float64
	level float64
	gate  bool
}

// New creates a follower. Coefficients are derived lazily from the sample
// rate carried by the first Params it sees.
func New(opts ...Option) (*Follower, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Follower{cfg: cfg}
	f.setSampleRate(control.DefaultSampleRate)

	return f, nil
}

// Threshold returns the linear trigger opening level.
func (f *Follower) Threshold() float64 { return f.cfg.triggerThreshold }

// Value returns the latest envelope output.
func (f *Follower) Value() float64 { return f.value }

// Gate reports whether the trigger comparator is currently open.
func (f *Follower) Gate() bool { return f.gate }

// Reset returns the follower to silence with the gate closed.
func (f *Follower) Reset() {
	f.value = 0
	f.level = 0
	f.gate = false
}

// Update feeds one sample and returns the new envelope value in [0, 1].
// All three laws share one output accumulator, so switching modes glides
// from the current value instead of jumping.
func (f *Follower) Update(p control.Params, x float64) float64 {
	if sr := p.Rate(); sr != f.sampleRate {
		f.setSampleRate(sr)
	}

	source := math.Abs(core.Sanitize(x))
	f.level = core.FlushDenormals(f.detector.follow(f.level, source))

	var v float64
	switch p.EnvelopeMode {
	case control.EnvelopeSlow:
		v = f.slow.follow(f.value, source)
	case control.EnvelopeTrigger:
		v = f.updateTrigger()
	default:
		v = f.fast.follow(f.value, source)
	}

	f.value = core.FlushDenormals(core.Clamp(v, 0, 1))

	return f.value
}

// UpdateBlock feeds src and writes the envelope of every sample to dst.
// dst must be at least as long as src.
func (f *Follower) UpdateBlock(p control.Params, dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.Update(p, x)
	}
}

func (f *Follower) updateTrigger() float64 {
	if f.gate {
		if f.level < f.cfg.triggerThreshold*f.cfg.hysteresis {
			f.gate = false
		}
	} else if f.level >= f.cfg.triggerThreshold {
		f.gate = true
	}

	if f.gate {
		return f.trigger.follow(f.value, 1)
	}

	return f.trigger.follow(f.value, 0)
}

func (f *Follower) setSampleRate(sampleRate float64) {
	f.sampleRate = sampleRate
	f.fast = newBallistics(f.cfg.fastAttackMs, f.cfg.fastReleaseMs, sampleRate)
	f.slow = newBallistics(f.cfg.slowAttackMs, f.cfg.slowReleaseMs, sampleRate)
	f.trigger = newBallistics(f.cfg.triggerAttackMs, f.cfg.triggerReleaseMs, sampleRate)
	f.detector = newBallistics(detectorAttackMs, detectorReleaseMs, sampleRate)
}

func validateTimes(attackMs, releaseMs float64, name string) error {
	for _, v := range [2]float64{attackMs, releaseMs} {
		if !core.IsFinite(v) || v < minTimeMs || v > maxTimeMs {
			return fmt.Errorf("envelope: %s times must be in [%g, %g] ms: %f", name, minTimeMs, maxTimeMs, v)
		}
	}

	return nil
}
