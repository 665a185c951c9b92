package spectral

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-droplet/dsp/window"
)

const defaultFFTSize = 4096

// ErrEmpty is returned when a measurement has no input samples.
var ErrEmpty = errors.New("spectral: empty input")

// Config holds analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize is the segment length. It is rounded up to a power of two;
	// zero selects 4096.
	FFTSize int
	// Window tapers each Welch segment; the zero value is Hann.
	Window window.Type
}

// Spectrum is a one-sided spectrum sampled on a uniform frequency grid.
type Spectrum struct {
	BinHz float64
	// ResolutionHz is the equivalent noise bandwidth of one bin. It equals
	// BinHz for unwindowed spectra.
	ResolutionHz float64
	Freqs        []float64
	// Values holds power (PSD) or linear magnitude, depending on the
	// function that produced the spectrum.
	Values []float64
}

// Welch estimates the one-sided power spectral density of signal by
// averaging windowed periodograms with 50% overlap. Signals shorter than
// one segment are zero padded.
func Welch(signal []float64, cfg Config) (Spectrum, error) {
	if len(signal) == 0 {
		return Spectrum{}, ErrEmpty
	}

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return Spectrum{}, err
	}

	n := cfg.FFTSize

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectral: fft plan: %w", err)
	}

	win := window.Generate(cfg.Window, n, window.WithPeriodic())

	wa, err := window.Analyze(win)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectral: %s window: %w", cfg.Window, err)
	}

	binHz := cfg.SampleRate / float64(n)

	bins := n/2 + 1
	seg := make([]float64, n)
	in := make([]complex128, n)
	out := make([]complex128, n)
	re := make([]float64, bins)
	im := make([]float64, bins)
	pow := make([]float64, bins)
	acc := make([]float64, bins)

	hop := n / 2
	segments := 0

	for start := 0; start == 0 || start+n <= len(signal); start += hop {
		clear(seg)
		copy(seg, signal[start:min(start+n, len(signal))])
		vecmath.MulBlockInPlace(seg, win)

		for i, v := range seg {
			in[i] = complex(v, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return Spectrum{}, fmt.Errorf("spectral: fft: %w", err)
		}

		for k := range bins {
			re[k] = real(out[k])
			im[k] = imag(out[k])
		}

		vecmath.Power(pow, re, im)
		vecmath.AddBlockInPlace(acc, pow)

		segments++
	}

	// One-sided density: double every bin except DC and Nyquist.
	vecmath.ScaleBlockInPlace(acc, 2/(cfg.SampleRate*wa.PowerGain*float64(n*segments)))
	acc[0] *= 0.5
	acc[bins-1] *= 0.5

	return Spectrum{
		BinHz:        binHz,
		ResolutionHz: wa.ENBW * binHz,
		Freqs:        frequencies(bins, binHz),
		Values:       acc,
	}, nil
}

// Response returns the linear magnitude response of an impulse response,
// zero padded to the configured FFT size. Longer responses are truncated.
func Response(ir []float64, cfg Config) (Spectrum, error) {
	if len(ir) == 0 {
		return Spectrum{}, ErrEmpty
	}

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return Spectrum{}, err
	}

	n := cfg.FFTSize

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectral: fft plan: %w", err)
	}

	in := make([]complex128, n)
	out := make([]complex128, n)

	for i := 0; i < n && i < len(ir); i++ {
		in[i] = complex(ir[i], 0)
	}

	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectral: fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	mag := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	vecmath.Magnitude(mag, re, im)

	binHz := cfg.SampleRate / float64(n)

	return Spectrum{
		BinHz:        binHz,
		ResolutionHz: binHz,
		Freqs:        frequencies(bins, binHz),
		Values:       mag,
	}, nil
}

// At returns the value at hz, linearly interpolated between bins.
// Frequencies outside the grid return the nearest edge value.
func (s Spectrum) At(hz float64) float64 {
	if len(s.Values) == 0 || s.BinHz <= 0 {
		return 0
	}

	pos := hz / s.BinHz
	if pos <= 0 {
		return s.Values[0]
	}

	last := len(s.Values) - 1
	if pos >= float64(last) {
		return s.Values[last]
	}

	i := int(pos)
	frac := pos - float64(i)

	return s.Values[i]*(1-frac) + s.Values[i+1]*frac
}

// Peak returns the frequency and value of the largest bin in [loHz, hiHz].
func (s Spectrum) Peak(loHz, hiHz float64) (hz, value float64) {
	for i, f := range s.Freqs {
		if f < loHz || f > hiHz {
			continue
		}

		if s.Values[i] > value {
			hz, value = f, s.Values[i]
		}
	}

	return hz, value
}

// Slope fits log10(value) against log10(frequency) over [loHz, hiHz] and
// returns the slope. For a power spectrum white noise gives 0, pink noise
// -1 and brown noise -2.
func (s Spectrum) Slope(loHz, hiHz float64) (float64, error) {
	if loHz <= 0 || hiHz <= loHz {
		return 0, fmt.Errorf("spectral: invalid fit range [%g, %g]", loHz, hiHz)
	}

	var x, y []float64

	for i, f := range s.Freqs {
		if f < loHz || f > hiHz || s.Values[i] <= 0 {
			continue
		}

		x = append(x, math.Log10(f))
		y = append(y, math.Log10(s.Values[i]))
	}

	if len(x) < 2 {
		return 0, fmt.Errorf("spectral: fewer than two bins in [%g, %g] Hz", loHz, hiHz)
	}

	_, beta := stat.LinearRegression(x, y, nil, false)

	return beta, nil
}

// Ringing counts the sign changes of x among samples whose magnitude
// exceeds floor times the peak magnitude. A damped, non-resonant response
// changes sign at most a few times; a resonant one oscillates.
func Ringing(x []float64, floor float64) int {
	peak := vecmath.MaxAbs(x)
	if peak == 0 {
		return 0
	}

	limit := floor * peak
	prev := 0.0
	count := 0

	for _, v := range x {
		if math.Abs(v) <= limit {
			continue
		}

		if prev != 0 && (v > 0) != (prev > 0) {
			count++
		}

		prev = v
	}

	return count
}

func normalizeConfig(cfg Config) (Config, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return cfg, fmt.Errorf("spectral: sample rate must be > 0: %g", cfg.SampleRate)
	}

	if !cfg.Window.Valid() {
		return cfg, fmt.Errorf("spectral: unknown window %v", cfg.Window)
	}

	if cfg.FFTSize < 0 {
		return cfg, fmt.Errorf("spectral: fft size must be >= 0: %d", cfg.FFTSize)
	}

	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaultFFTSize
	}

	cfg.FFTSize = max(nextPowerOf2(cfg.FFTSize), 2)

	return cfg, nil
}

func frequencies(bins int, binHz float64) []float64 {
	f := make([]float64, bins)
	for k := range f {
		f[k] = float64(k) * binHz
	}

	return f
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
