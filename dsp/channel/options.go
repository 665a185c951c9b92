package channel

import (
	"fmt"

	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/envelope"
	"github.com/cwbudde/algo-droplet/dsp/filter/multimode"
)

// EnvelopeSource selects which signal feeds the envelope follower.
type EnvelopeSource int

const (
	// PostFilter follows the filtered output.
	PostFilter EnvelopeSource = iota
	// PreFilter follows the source after noise blending.
	PreFilter

	envelopeSourceCount
)

var envelopeSourceNames = [envelopeSourceCount]string{"post-filter", "pre-filter"}

func (s EnvelopeSource) String() string {
	if s.Valid() {
		return envelopeSourceNames[s]
	}

	return fmt.Sprintf("EnvelopeSource(%d)", int(s))
}

// Valid reports whether s is a known envelope source.
func (s EnvelopeSource) Valid() bool {
	return s >= 0 && s < envelopeSourceCount
}

// Option mutates processor construction parameters.
type Option func(*config) error

type config struct {
	processor      []core.ProcessorOption
	noiseSeed      uint64
	resetNoise     bool
	envelopeSource EnvelopeSource
	filter         []multimode.Option
	envelope       []envelope.Option
}

func defaultConfig() config {
	return config{
		noiseSeed:      1,
		envelopeSource: PostFilter,
	}
}

// WithProcessorOptions sets the shared processor configuration. The block
// size bounds the scratch buffer of ProcessBlock.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(cfg *config) error {
		cfg.processor = append(cfg.processor, opts...)
		return nil
	}
}

// WithNoiseSeed seeds the internal noise source.
func WithNoiseSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.noiseSeed = seed
		return nil
	}
}

// WithResetNoiseOnInitialise makes Initialise re-seed the noise source as
// well. By default noise keeps running across resets.
func WithResetNoiseOnInitialise(reset bool) Option {
	return func(cfg *config) error {
		cfg.resetNoise = reset
		return nil
	}
}

// WithEnvelopeSource selects the signal the envelope follower tracks.
func WithEnvelopeSource(src EnvelopeSource) Option {
	return func(cfg *config) error {
		if !src.Valid() {
			return fmt.Errorf("channel: invalid envelope source: %d", int(src))
		}

		cfg.envelopeSource = src

		return nil
	}
}

// WithFilterOptions forwards options to the filter engine.
func WithFilterOptions(opts ...multimode.Option) Option {
	return func(cfg *config) error {
		cfg.filter = append(cfg.filter, opts...)
		return nil
	}
}

// WithEnvelopeOptions forwards options to the envelope follower.
func WithEnvelopeOptions(opts ...envelope.Option) Option {
	return func(cfg *config) error {
		cfg.envelope = append(cfg.envelope, opts...)
		return nil
	}
}
