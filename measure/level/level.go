// Package level reports time-domain level statistics of rendered audio:
// DC offset, RMS, peak, crest factor and zero crossings.
//
// [Measure] works on a whole buffer. [Meter] accumulates the same values
// across blocks so streamed and offline measurements agree exactly.
package level

import (
	"math"

	"github.com/cwbudde/algo-droplet/dsp/core"
)

// Stats holds the level of a signal. Decibel accessors are relative to a
// full-scale amplitude of 1.
type Stats struct {
	Length        int
	DC            float64
	RMS           float64
	Peak          float64
	PeakPos       int
	Variance      float64
	ZeroCrossings int
}

// CrestFactor is Peak/RMS, or 0 for silence.
func (s Stats) CrestFactor() float64 {
	if s.RMS == 0 {
		return 0
	}

	return s.Peak / s.RMS
}

// RMSdB returns the RMS level in dBFS; -Inf for silence.
func (s Stats) RMSdB() float64 { return core.LinearToDB(s.RMS) }

// PeakdB returns the peak level in dBFS; -Inf for silence.
func (s Stats) PeakdB() float64 { return core.LinearToDB(s.Peak) }

// CrestFactordB returns the crest factor in dB, 0 for silence.
func (s Stats) CrestFactordB() float64 {
	c := s.CrestFactor()
	if c == 0 {
		return 0
	}

	return core.LinearToDB(c)
}

// StdDev is the standard deviation around DC.
func (s Stats) StdDev() float64 { return math.Sqrt(s.Variance) }

// Measure returns the statistics of x.
func Measure(x []float64) Stats {
	var m Meter
	m.Update(x)

	return m.Result()
}

// Meter accumulates [Stats] over consecutive blocks. The zero value is
// ready to use.
type Meter struct {
	n        int
	mean     float64
	m2       float64
	sumSq    float64
	peak     float64
	peakPos  int
	last     float64
	crossing int
}

// Update folds a block of samples into the running statistics.
func (m *Meter) Update(block []float64) {
	for _, x := range block {
		// Welford mean/variance.
		m.n++
		delta := x - m.mean
		m.mean += delta / float64(m.n)
		m.m2 += delta * (x - m.mean)

		m.sumSq += x * x

		if a := math.Abs(x); a > m.peak {
			m.peak = a
			m.peakPos = m.n - 1
		}

		if m.n > 1 && m.last*x < 0 {
			m.crossing++
		}

		m.last = x
	}
}

// Len returns the number of samples seen since the last Reset.
func (m *Meter) Len() int { return m.n }

// Result returns the statistics so far. An empty meter reports zeros.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{}
	}

	nf := float64(m.n)

	return Stats{
		Length:        m.n,
		DC:            m.mean,
		RMS:           math.Sqrt(m.sumSq / nf),
		Peak:          m.peak,
		PeakPos:       m.peakPos,
		Variance:      m.m2 / nf,
		ZeroCrossings: m.crossing,
	}
}

// Reset clears the accumulated data.
func (m *Meter) Reset() { *m = Meter{} }
