package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM    = 1
	defaultBitDepth = 16
)

// wavClip is a mono clip normalised to [-1, 1].
type wavClip struct {
	samples    []float64
	sampleRate int
	bitDepth   int
	channels   int
}

// readWAV decodes a PCM WAV file and mixes all channels down to mono.
func readWAV(path string) (*wavClip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)

	if channels < 1 {
		return nil, fmt.Errorf("WAV file has no channels: %s", path)
	}

	scale, offset := pcmScale(bitDepth)
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	for i := range frames {
		sum := 0.0
		for ch := range channels {
			sum += (float64(buf.Data[i*channels+ch]) - offset) * scale
		}

		samples[i] = sum / float64(channels)
	}

	return &wavClip{
		samples:    samples,
		sampleRate: int(dec.SampleRate),
		bitDepth:   bitDepth,
		channels:   channels,
	}, nil
}

// writeWAV encodes mono samples as integer PCM, clipping to [-1, 1].
func writeWAV(path string, samples []float64, sampleRate, bitDepth int) (err error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, wavFormatPCM)

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = pcmSample(v, bitDepth)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise WAV file: %w", err)
	}

	return nil
}

// pcmSample clips v to [-1, 1] and rounds it to the nearest integer code,
// offset for unsigned 8-bit data.
func pcmSample(v float64, bitDepth int) int {
	scale, offset := pcmScale(bitDepth)

	if math.IsNaN(v) {
		v = 0
	}

	v = min(max(v, -1), 1)

	return int(math.Round(v*(1/scale-1) + offset))
}

// pcmScale returns the factor mapping integer samples to [-1, 1] and the
// offset of unsigned 8-bit data.
func pcmScale(bitDepth int) (scale, offset float64) {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = defaultBitDepth
	}

	if bitDepth == 8 {
		offset = 128
	}

	return 1 / float64(int64(1)<<(bitDepth-1)), offset
}
