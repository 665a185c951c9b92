package level

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-droplet/internal/testutil"
)

func BenchmarkMeasure(b *testing.B) {
	for _, n := range []int{256, 4096, 65536} {
		x := testutil.DeterministicSine(440, 48000, 0.5, n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for range b.N {
				Measure(x)
			}
		})
	}
}
