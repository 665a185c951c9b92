package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/signal"
	"github.com/cwbudde/algo-droplet/measure/level"
)

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	panel := registerPanelFlags(fs)
	source := registerSourceFlags(fs, "saw")
	inPath := fs.String("in", "", "input WAV file (default: synthesise -shape)")
	envPath := fs.String("env-out", "", "also write the envelope as a WAV file")
	rate := fs.Int("rate", 48000, "sample rate for synthesised input")
	bits := fs.Int("bits", defaultBitDepth, "output bit depth: 8, 16, 24, 32")
	block := fs.Int("block", 256, "processing block size")
	verbose := fs.Bool("v", false, "verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: droplet render [flags] output.wav\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	outPath := fs.Arg(0)

	var (
		samples    []float64
		sampleRate = *rate
	)

	if *inPath != "" {
		clip, err := readWAV(*inPath)
		if err != nil {
			return err
		}

		if *verbose {
			log.Printf("Input format: %d Hz, %d channels, %d-bit", clip.sampleRate, clip.channels, clip.bitDepth)
		}

		samples = clip.samples
		sampleRate = clip.sampleRate
	} else {
		gen := signal.NewGeneratorWithOptions(
			[]core.ProcessorOption{core.WithSampleRate(float64(sampleRate))},
			signal.WithSeed(panel.seed),
		)

		var err error
		if samples, err = source.generate(gen); err != nil {
			return err
		}

		if *verbose {
			log.Printf("Input: %s at %.1f Hz, %d samples", source.shape, source.hz, len(samples))
		}
	}

	out, env, err := renderClip(panel, samples, float64(sampleRate), *block, *verbose)
	if err != nil {
		return err
	}

	if err := writeWAV(outPath, out, sampleRate, *bits); err != nil {
		return err
	}

	if *envPath != "" {
		if err := writeWAV(*envPath, env, sampleRate, *bits); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Rendered %d samples at %d Hz -> %s\n", len(out), sampleRate, filepath.Base(outPath))

	if *envPath != "" {
		fmt.Fprintf(stdout, "Envelope -> %s\n", filepath.Base(*envPath))
	}

	return nil
}

// renderClip runs samples through a fresh channel and returns the filtered
// signal and the envelope.
func renderClip(panel *panelFlags, samples []float64, sampleRate float64, block int, verbose bool) (out, env []float64, err error) {
	in, err := panel.inputs(sampleRate)
	if err != nil {
		return nil, nil, err
	}

	m, err := panel.module(block)
	if err != nil {
		return nil, nil, err
	}

	prm := m.Params(in)
	logParams(verbose, prm)

	out = make([]float64, len(samples))
	env = make([]float64, len(samples))
	m.Processor().ProcessBlock(prm, samples, out, env)

	if verbose {
		lin, lout := level.Measure(samples), level.Measure(out)
		log.Printf("Level: in %.2f dBFS rms / %.2f dBFS peak, out %.2f dBFS rms / %.2f dBFS peak",
			lin.RMSdB(), lin.PeakdB(), lout.RMSdB(), lout.PeakdB())
	}

	return out, env, nil
}
