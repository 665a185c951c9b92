package spectral_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-droplet/measure/spectral"
)

func ExampleWelch() {
	const sampleRate = 48000.0

	signal := make([]float64, 16384)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 750 * float64(i) / sampleRate)
	}

	psd, err := spectral.Welch(signal, spectral.Config{SampleRate: sampleRate, FFTSize: 4096})
	if err != nil {
		fmt.Println(err)
		return
	}

	hz, _ := psd.Peak(20, 20000)
	fmt.Printf("peak: %.1f Hz\n", hz)
	// Output:
	// peak: 750.0 Hz
}

func ExampleSpectrum_Slope() {
	psd := spectral.Spectrum{BinHz: 1}
	for f := 0.0; f <= 1000; f++ {
		psd.Freqs = append(psd.Freqs, f)
		psd.Values = append(psd.Values, 1/math.Max(f, 1))
	}

	slope, _ := psd.Slope(10, 1000)
	fmt.Printf("slope: %.2f\n", slope)
	// Output:
	// slope: -1.00
}
