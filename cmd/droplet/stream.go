package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-droplet/dsp/channel"
	"github.com/cwbudde/algo-droplet/dsp/control"
)

const bytesPerSample = 4

// stream renders a looping source through a channel on demand and encodes
// the result as mono float32 little-endian PCM. Read runs on the audio
// thread; the envelope and frame counter are published atomically for the
// meter.
type stream struct {
	mod    *channel.Module
	params atomic.Pointer[control.Params]

	source []float64
	pos    int
	in     []float64
	out    []float64
	gain   float64

	envelope atomic.Uint64
	frames   atomic.Int64
}

func newStream(mod *channel.Module, prm control.Params, source []float64, gain float64) *stream {
	block := mod.Processor().Config().BlockSize

	s := &stream{
		mod:    mod,
		source: source,
		in:     make([]float64, block),
		out:    make([]float64, block),
		gain:   gain,
	}
	s.params.Store(&prm)

	return s
}

// SetParams replaces the control bus for subsequent reads.
func (s *stream) SetParams(prm control.Params) {
	s.params.Store(&prm)
}

// Envelope returns the latest envelope value.
func (s *stream) Envelope() float64 {
	return math.Float64frombits(s.envelope.Load())
}

// Frames returns the number of frames rendered so far.
func (s *stream) Frames() int64 {
	return s.frames.Load()
}

func (s *stream) Read(p []byte) (int, error) {
	prm := *s.params.Load()
	frames := len(p) / bytesPerSample
	written := 0

	for written < frames {
		n := min(frames-written, len(s.in))
		in := s.in[:n]
		out := s.out[:n]

		s.fill(in)

		if !s.mod.Processor().ProcessBlock(prm, in, out, nil) {
			clear(out)
		}

		for i, v := range out {
			v = min(max(v*s.gain, -1), 1)
			binary.LittleEndian.PutUint32(p[(written+i)*bytesPerSample:], math.Float32bits(float32(v)))
		}

		written += n
	}

	s.envelope.Store(math.Float64bits(s.mod.Processor().Envelope()))
	s.frames.Add(int64(frames))

	return frames * bytesPerSample, nil
}

// fill copies the next len(dst) source samples, wrapping at the end.
func (s *stream) fill(dst []float64) {
	if len(s.source) == 0 {
		clear(dst)
		return
	}

	for i := range dst {
		dst[i] = s.source[s.pos]

		s.pos++
		if s.pos == len(s.source) {
			s.pos = 0
		}
	}
}
