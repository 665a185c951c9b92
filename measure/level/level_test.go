package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-droplet/internal/testutil"
)

func TestMeasureKnownSignals(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 48000, 0.5, 4800)

	square := make([]float64, 100)
	for i := range square {
		square[i] = 1
		if i%2 == 1 {
			square[i] = -1
		}
	}

	tests := []struct {
		name      string
		in        []float64
		dc        float64
		rms       float64
		peak      float64
		crossings int
	}{
		{"dc", testutil.Step(64, 0, -0.25), -0.25, 0.25, 0.25, 0},
		{"sine", sine, 0, 0.5 / math.Sqrt2, 0.5, 199},
		{"square", square, 0, 1, 1, 99},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Measure(tc.in)
			if s.Length != len(tc.in) {
				t.Fatalf("length=%d want %d", s.Length, len(tc.in))
			}
			if math.Abs(s.DC-tc.dc) > 1e-9 {
				t.Fatalf("dc=%g want %g", s.DC, tc.dc)
			}
			if math.Abs(s.RMS-tc.rms) > 1e-6 {
				t.Fatalf("rms=%g want %g", s.RMS, tc.rms)
			}
			if math.Abs(s.Peak-tc.peak) > 1e-6 {
				t.Fatalf("peak=%g want %g", s.Peak, tc.peak)
			}
			if d := s.ZeroCrossings - tc.crossings; d < -1 || d > 1 {
				t.Fatalf("crossings=%d want %d", s.ZeroCrossings, tc.crossings)
			}
		})
	}
}

func TestCrestFactor(t *testing.T) {
	s := Measure(testutil.DeterministicSine(1000, 48000, 1, 4800))
	if got := s.CrestFactor(); math.Abs(got-math.Sqrt2) > 1e-6 {
		t.Fatalf("sine crest=%g want sqrt2", got)
	}
	if got := s.CrestFactordB(); math.Abs(got-3.0103) > 1e-3 {
		t.Fatalf("sine crest dB=%g", got)
	}
	if got := s.PeakdB(); math.Abs(got) > 1e-9 {
		t.Fatalf("peak dB=%g want 0", got)
	}
}

func TestSilence(t *testing.T) {
	for _, in := range [][]float64{nil, make([]float64, 32)} {
		s := Measure(in)
		if s.RMS != 0 || s.Peak != 0 || s.CrestFactor() != 0 || s.CrestFactordB() != 0 {
			t.Fatalf("silence stats=%+v", s)
		}
		if !math.IsInf(s.RMSdB(), -1) || !math.IsInf(s.PeakdB(), -1) {
			t.Fatalf("silence dB rms=%g peak=%g", s.RMSdB(), s.PeakdB())
		}
	}
}

func TestPeakPosition(t *testing.T) {
	x := []float64{0.1, -0.9, 0.5, 0.9}
	s := Measure(x)
	if s.PeakPos != 1 {
		t.Fatalf("peak pos=%d want first maximum at 1", s.PeakPos)
	}
}

func TestMeterMatchesMeasure(t *testing.T) {
	x := testutil.DeterministicNoise(7, 0.8, 10000)
	want := Measure(x)

	for _, block := range []int{1, 17, 256, 4096} {
		var m Meter
		for i := 0; i < len(x); i += block {
			m.Update(x[i:min(i+block, len(x))])
		}
		if got := m.Result(); got != want {
			t.Fatalf("block %d: got %+v want %+v", block, got, want)
		}
	}
}

func TestMeterReset(t *testing.T) {
	var m Meter
	m.Update([]float64{1, -1, 1})
	m.Reset()
	if m.Len() != 0 || m.Result() != (Stats{}) {
		t.Fatalf("reset meter=%+v", m.Result())
	}
	m.Update([]float64{0.5})
	if got := m.Result(); got.Length != 1 || got.DC != 0.5 || got.Variance != 0 {
		t.Fatalf("after reset=%+v", got)
	}
}

func TestVarianceOfUniformNoise(t *testing.T) {
	s := Measure(testutil.DeterministicNoise(3, 1, 200000))
	if math.Abs(s.Variance-1.0/3) > 0.01 {
		t.Fatalf("variance=%g want ~1/3", s.Variance)
	}
	if math.Abs(s.StdDev()-math.Sqrt(1.0/3)) > 0.01 {
		t.Fatalf("stddev=%g", s.StdDev())
	}
}
