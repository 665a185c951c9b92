package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-droplet/dsp/channel"
	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/filter/multimode"
	"github.com/cwbudde/algo-droplet/dsp/noise"
	"github.com/cwbudde/algo-droplet/dsp/window"
	"github.com/cwbudde/algo-droplet/measure/level"
	"github.com/cwbudde/algo-droplet/measure/spectral"
)

const (
	responseFFTSize = 16384
	noiseFFTSize    = 4096
	slopeLowHz      = 100.0
	slopeHighHz     = 5000.0
	ringingFloor    = 1e-3
)

var analyzeSections = []string{"response", "envelope", "noise"}

func runAnalyze(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	panel := registerPanelFlags(fs)
	rate := fs.Float64("rate", control.DefaultSampleRate, "sample rate in Hz")
	section := fs.String("section", "all", "what to measure: all, response, envelope, noise")
	seconds := fs.Float64("noise-dur", 4, "noise analysis length in seconds")
	winName := fs.String("window", window.TypeHann.String(), "noise analysis window: hann, hamming, blackman, flattop, rectangular")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: droplet analyze [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	win, err := window.ParseType(*winName)
	if err != nil {
		return err
	}

	sections := analyzeSections
	if *section != "all" {
		sections = []string{*section}
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(stdout)
		}

		var err error

		switch s {
		case "response":
			err = printResponse(stdout, panel, *rate)
		case "envelope":
			err = printEnvelope(stdout, panel, *rate)
		case "noise":
			err = printNoise(stdout, *rate, panel.seed, int(*seconds**rate), win)
		default:
			return fmt.Errorf("unknown section %q", s)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// impulseResponse feeds a unit impulse through a fresh channel with the
// panel settings and noise switched out.
func impulseResponse(panel *panelFlags, sampleRate float64, n int) ([]float64, control.Params, error) {
	in, err := panel.inputs(sampleRate)
	if err != nil {
		return nil, control.Params{}, err
	}

	in.NoiseBlend = control.BlendOff

	m, err := panel.module(0)
	if err != nil {
		return nil, control.Params{}, err
	}

	prm := m.Params(in)
	ir := make([]float64, n)
	ir[0] = 1
	m.Processor().ProcessBlock(prm, ir, ir, nil)

	return ir, prm, nil
}

func printResponse(w io.Writer, panel *panelFlags, sampleRate float64) error {
	ir, prm, err := impulseResponse(panel, sampleRate, responseFFTSize)
	if err != nil {
		return err
	}

	resp, err := spectral.Response(ir, spectral.Config{SampleRate: sampleRate, FFTSize: responseFFTSize})
	if err != nil {
		return err
	}

	f, err := multimode.New()
	if err != nil {
		return err
	}

	peakHz, peak := resp.Peak(10, sampleRate/2)

	fmt.Fprintf(w, "Filter response (%s)\n", prm.FilterMode)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Cutoff [Hz]\t%.2f\n", f.CutoffHz(prm.CutoffHz, sampleRate))
	fmt.Fprintf(tw, "Resonance code\t%d\n", prm.Resonance())
	fmt.Fprintf(tw, "Stage Q\t%.3f\n", f.StageQ(prm.Resonance(), prm.FilterMode.Stages()))
	fmt.Fprintf(tw, "Peak [Hz]\t%.1f\n", peakHz)
	fmt.Fprintf(tw, "Peak gain [dB]\t%.2f\n", core.LinearToDB(peak))
	fmt.Fprintf(tw, "Sign changes\t%d\n", spectral.Ringing(ir, ringingFloor))

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Frequency [Hz]\tGain [dB]\n")
	fmt.Fprintf(tw, "--------------\t---------\n")

	for hz := 31.25; hz < sampleRate/2; hz *= 2 {
		fmt.Fprintf(tw, "%.2f\t%.2f\n", hz, core.LinearToDB(resp.At(hz)))
	}

	return tw.Flush()
}

// burstResponse summarises the follower response to a tone burst.
type burstResponse struct {
	mode     control.EnvelopeMode
	held     float64
	released float64
	settled  float64
	rise90   float64
}

func measureEnvelope(panel *panelFlags, mode control.EnvelopeMode, sampleRate float64) (burstResponse, error) {
	in, err := panel.inputs(sampleRate)
	if err != nil {
		return burstResponse{}, err
	}

	in.EnvelopeMode = mode
	in.NoiseBlend = control.BlendOff

	m, err := panel.module(0)
	if err != nil {
		return burstResponse{}, err
	}

	prm := m.Params(in)

	n := int(sampleRate)
	start, end := n/10, n/2
	burst := make([]float64, n)
	for i := start; i < end; i++ {
		burst[i] = 0.8 * math.Sin(2*math.Pi*1000*float64(i-start)/sampleRate)
	}

	env := make([]float64, n)
	out := make([]float64, n)

	m.Processor().ProcessBlock(prm, burst, out, env)

	p := burstResponse{
		mode:     mode,
		held:     env[end-1],
		released: env[min(end+n/20, n-1)],
		settled:  env[n-1],
		rise90:   math.NaN(),
	}

	for i := start; i < end; i++ {
		if env[i] >= 0.9*p.held {
			p.rise90 = float64(i-start) / sampleRate * 1000

			break
		}
	}

	return p, nil
}

func printEnvelope(w io.Writer, panel *panelFlags, sampleRate float64) error {
	fmt.Fprintf(w, "Envelope (1 kHz burst at 0.8, 0.1 s to 0.5 s)\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Mode\tHeld\tHeld [V]\tRise 90%% [ms]\t+50 ms\tSettled\n")
	fmt.Fprintf(tw, "----\t----\t--------\t-------------\t------\t-------\n")

	for mode := control.EnvelopeFast; mode.Valid(); mode++ {
		p, err := measureEnvelope(panel, mode, sampleRate)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%.3f\t%.2f\t%.2f\t%.3f\t%.4f\n",
			p.mode, p.held, channel.EnvelopeVolts(p.held), p.rise90, p.released, p.settled)
	}

	return tw.Flush()
}

// noiseStats summarises one noise colour.
type noiseStats struct {
	mode  control.NoiseMode
	stats level.Stats
	slope float64
}

func measureNoise(mode control.NoiseMode, sampleRate float64, seed uint64, n int, win window.Type) (noiseStats, error) {
	buf := make([]float64, n)
	noise.New(noise.WithSeed(seed)).Generate(mode, sampleRate, buf)

	psd, err := spectral.Welch(buf, spectral.Config{SampleRate: sampleRate, FFTSize: noiseFFTSize, Window: win})
	if err != nil {
		return noiseStats{}, err
	}

	slope, err := psd.Slope(slopeLowHz, slopeHighHz)
	if err != nil {
		return noiseStats{}, err
	}

	return noiseStats{
		mode:  mode,
		stats: level.Measure(buf),
		slope: slope,
	}, nil
}

func printNoise(w io.Writer, sampleRate float64, seed uint64, n int, win window.Type) error {
	if n <= 0 {
		return fmt.Errorf("noise analysis length must be > 0")
	}

	wa, err := window.Analyze(window.Generate(win, noiseFFTSize, window.WithPeriodic()))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Noise (%d samples, slope fitted over %.0f-%.0f Hz)\n", n, slopeLowHz, slopeHighHz)
	fmt.Fprintf(w, "Window %s: ENBW %.2f bins (%.1f Hz), scallop loss %.2f dB\n",
		win, wa.ENBW, wa.ENBW*sampleRate/noiseFFTSize, wa.ScallopLossdB)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Colour\tRMS [dBFS]\tPeak\tCrest [dB]\tDC\tSlope [dB/oct]\n")
	fmt.Fprintf(tw, "------\t----------\t----\t----------\t--\t--------------\n")

	for mode := control.NoiseBrown; mode.Valid(); mode++ {
		s, err := measureNoise(mode, sampleRate, seed, n, win)
		if err != nil {
			return err
		}

		// A log-log power slope of 1 is 10*log10(2) dB per octave.
		fmt.Fprintf(tw, "%s\t%.2f\t%.3f\t%.2f\t%+.3f\t%.2f\n",
			s.mode, s.stats.RMSdB(), s.stats.Peak, s.stats.CrestFactordB(), s.stats.DC, s.slope*10*math.Log10(2))
	}

	return tw.Flush()
}
