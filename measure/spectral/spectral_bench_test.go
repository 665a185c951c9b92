package spectral

import (
	"testing"

	"github.com/cwbudde/algo-droplet/internal/testutil"
)

func BenchmarkWelch(b *testing.B) {
	sig := testutil.DeterministicNoise(1, 1, 1<<15)
	cfg := Config{SampleRate: 48000, FFTSize: 2048}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		if _, err := Welch(sig, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
