package noise_test

import (
	"fmt"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/dsp/noise"
)

func ExampleGenerator_Reset() {
	g := noise.New(noise.WithSeed(7))

	first := g.GenerateSample(control.NoisePink, 48000)
	g.GenerateSample(control.NoisePink, 48000)
	g.Reset()

	fmt.Println(first == g.GenerateSample(control.NoisePink, 48000))
	// Output:
	// true
}
