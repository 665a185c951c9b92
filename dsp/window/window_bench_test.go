package window

import (
	"strconv"
	"testing"
)

func BenchmarkGenerate(b *testing.B) {
	for _, n := range []int{256, 4096, 16384} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			for range b.N {
				Generate(TypeHann, n, WithPeriodic())
			}
		})
	}
}
