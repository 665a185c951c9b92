// Command droplet drives a droplet filter channel offline or in real time.
//
// Usage:
//
//	droplet render  [flags] output.wav
//	droplet analyze [flags]
//	droplet play    [flags]
//
// Examples:
//
//	droplet render -shape saw -hz 110 -freq 2 -q 8 out.wav
//	droplet render -in drums.wav -env trigger -env-out gate.wav out.wav
//	droplet analyze -q 10 -filter 1-pass
//	droplet play -shape noise -freq 1 -q 9 -dur 5
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}

		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}

	switch args[0] {
	case "render":
		return runRender(args[1:], stdout, stderr)
	case "analyze":
		return runAnalyze(args[1:], stdout, stderr)
	case "play":
		return runPlay(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)

		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: droplet <command> [flags]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  render   process a WAV file or a test signal and write WAV output\n")
	fmt.Fprintf(w, "  analyze  print filter, envelope and noise measurements\n")
	fmt.Fprintf(w, "  play     process a test signal and play it on the default audio device\n")
	fmt.Fprintf(w, "\nRun 'droplet <command> -h' for command flags.\n")
}
