package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/cwbudde/algo-droplet/dsp/channel"
	"github.com/cwbudde/algo-droplet/dsp/core"
	"github.com/cwbudde/algo-droplet/dsp/signal"
)

const (
	meterInterval = 100 * time.Millisecond
	meterWidth    = 40
)

// audioOutput is a started-on-demand realtime sink.
type audioOutput interface {
	Play()
	Err() error
	Close() error
}

func runPlay(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)

	panel := registerPanelFlags(fs)
	source := registerSourceFlags(fs, "saw")
	rate := fs.Int("rate", 48000, "output sample rate")
	length := fs.Duration("time", 5*time.Second, "playback time")
	gain := fs.Float64("gain", 0.5, "output gain")
	block := fs.Int("block", 512, "processing block size")
	verbose := fs.Bool("v", false, "verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: droplet play [flags]\n\nThe test signal loops for -time.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(*rate))},
		signal.WithSeed(panel.seed),
	)

	loop, err := source.generate(gen)
	if err != nil {
		return err
	}

	in, err := panel.inputs(float64(*rate))
	if err != nil {
		return err
	}

	mod, err := panel.module(*block)
	if err != nil {
		return err
	}

	prm := mod.Params(in)
	logParams(*verbose, prm)

	st := newStream(mod, prm, loop, *gain)

	out, err := openOutput(*rate, st)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if *verbose {
		log.Printf("Playing %s at %.1f Hz for %s", source.shape, source.hz, *length)
	}

	out.Play()

	live := isTerminal(stdout)
	ticker := time.NewTicker(meterInterval)
	defer ticker.Stop()

	deadline := time.After(*length)

	for {
		select {
		case <-deadline:
			if live {
				fmt.Fprintln(stdout)
			}

			fmt.Fprintf(stdout, "Played %d frames, final envelope %.2f V\n", st.Frames(), channel.EnvelopeVolts(st.Envelope()))

			return nil
		case <-ticker.C:
			if err := out.Err(); err != nil {
				return fmt.Errorf("audio output: %w", err)
			}

			if live {
				fmt.Fprintf(stdout, "\r%s", meter(st.Envelope()))
			}
		}
	}
}

// meter draws a one-line envelope bar.
func meter(env float64) string {
	volts := channel.EnvelopeVolts(env)
	filled := int(volts / channel.EnvelopeMaxVolts * meterWidth)

	return fmt.Sprintf("env [%s%s] %5.2f V", strings.Repeat("#", filled), strings.Repeat(" ", meterWidth-filled), volts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
