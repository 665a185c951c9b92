package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-droplet/dsp/control"
	"github.com/cwbudde/algo-droplet/measure/level"
)

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(nil, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), "Commands:")

	stderr.Reset()
	err = run([]string{"bogus"}, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), `unknown command "bogus"`)

	err = run([]string{"help"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "render")
}

func TestRenderSynthesised(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.wav")
	envPath := filepath.Join(dir, "env.wav")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"render", "-shape", "saw", "-hz", "220", "-dur", "0.1",
		"-q", "8", "-freq", "2", "-env-out", envPath, outPath,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Rendered 4800 samples at 48000 Hz")

	clip, err := readWAV(outPath)
	require.NoError(t, err)
	assert.Equal(t, 48000, clip.sampleRate)
	assert.Equal(t, 16, clip.bitDepth)
	assert.Len(t, clip.samples, 4800)

	env, err := readWAV(envPath)
	require.NoError(t, err)
	require.Len(t, env.samples, 4800)
	assert.Greater(t, env.samples[len(env.samples)-1], 0.01)

	for _, v := range env.samples {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestRenderFromWAV(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	in := make([]float64, 9600)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/48000)
	}

	require.NoError(t, writeWAV(inPath, in, 48000, 24))

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"render", "-in", inPath, "-freq", "10", "-q", "0", "-filter", "1-pass", "-bits", "24", outPath,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	clip, err := readWAV(outPath)
	require.NoError(t, err)
	require.Len(t, clip.samples, len(in))

	assert.InDelta(t, 0.5, level.Measure(clip.samples[4800:]).Peak, 0.01)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.wav")

	tests := []struct {
		name string
		args []string
	}{
		{"missing output", []string{"render"}},
		{"unknown shape", []string{"render", "-shape", "triangle", outPath}},
		{"unknown filter", []string{"render", "-filter", "4-pass", outPath}},
		{"bad bit depth", []string{"render", "-bits", "12", "-dur", "0.01", outPath}},
		{"missing input", []string{"render", "-in", filepath.Join(dir, "nope.wav"), outPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, io.Discard, io.Discard)
			require.Error(t, err)
		})
	}
}

func TestWAVRoundTrip(t *testing.T) {
	samples := []float64{0, 0.25, -0.5, 0.999, -1, 1.5}

	for _, bits := range []int{8, 16, 24, 32} {
		path := filepath.Join(t.TempDir(), "rt.wav")
		require.NoError(t, writeWAV(path, samples, 44100, bits))

		clip, err := readWAV(path)
		require.NoError(t, err)
		assert.Equal(t, 44100, clip.sampleRate)
		assert.Equal(t, bits, clip.bitDepth)
		assert.Equal(t, 1, clip.channels)
		require.Len(t, clip.samples, len(samples))

		tol := 1.5 / math.Exp2(float64(bits-1))
		for i, want := range samples {
			want = math.Max(-1, math.Min(1, want))
			assert.InDelta(t, want, clip.samples[i], tol, "bits=%d index=%d", bits, i)
		}
	}
}

func TestPCMSampleRoundsToNearest(t *testing.T) {
	tests := []struct {
		v    float64
		bits int
		want int
	}{
		{0.9 / 32767, 16, 1},
		{-0.9 / 32767, 16, -1},
		{0.4 / 32767, 16, 0},
		{0.5, 16, 16384},
		{-0.5, 16, -16384},
		{1, 16, 32767},
		{-2, 16, -32767},
		{math.NaN(), 16, 0},
		{0, 8, 128},
		{-0.3 / 127, 8, 128},
		{0.6 / 127, 8, 129},
		{1, 8, 255},
		{-1, 8, 1},
		{0.7 / 8388607, 24, 1},
		{1, 32, 2147483647},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pcmSample(tt.v, tt.bits), "v=%g bits=%d", tt.v, tt.bits)
	}
}

func TestReadWAVErrors(t *testing.T) {
	_, err := readWAV("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")

	invalid := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalid, []byte("not a wav file"), 0o644))

	_, err = readWAV(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestPanelInputs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	panel := registerPanelFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-filter", "1-pass", "-env", "trigger", "-noise", "pink", "-blend", "replace",
		"-level", "0.25", "-q", "10", "-freqcv", "1", "-freqattn", "0.5",
	}))

	in, err := panel.inputs(44100)
	require.NoError(t, err)
	assert.True(t, in.Connected)
	assert.Equal(t, control.FilterOnePass, in.FilterMode)
	assert.Equal(t, control.EnvelopeTrigger, in.EnvelopeMode)
	assert.Equal(t, control.NoisePink, in.NoiseMode)
	assert.Equal(t, control.BlendReplace, in.NoiseBlend)
	assert.InDelta(t, 44100.0, in.SampleRate, 0)

	m, err := panel.module(64)
	require.NoError(t, err)
	assert.Equal(t, 64, m.Processor().Config().BlockSize)

	prm := m.Params(in)
	assert.Equal(t, control.MaxCode, prm.ResonanceKnobCode)
	assert.InDelta(t, control.ReferenceHz*math.Sqrt2, prm.CutoffHz, 1e-9)

	for _, args := range [][]string{
		{"-env", "medium"},
		{"-noise", "blue"},
		{"-blend", "mix"},
	} {
		fs := flag.NewFlagSet("bad", flag.ContinueOnError)
		panel := registerPanelFlags(fs)
		require.NoError(t, fs.Parse(args))

		_, err := panel.inputs(48000)
		assert.Error(t, err, "args %v", args)
	}
}

func TestAnalyzeSections(t *testing.T) {
	tests := []struct {
		section string
		want    []string
	}{
		{"response", []string{"Filter response (2-pass)", "Peak gain [dB]", "Frequency [Hz]"}},
		{"envelope", []string{"fast", "slow", "trigger", "Rise 90%"}},
		{"noise", []string{"brown", "pink", "white", "Crest [dB]", "Slope [dB/oct]", "Window hann: ENBW 1.50 bins"}},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			var stdout bytes.Buffer

			err := run([]string{"analyze", "-section", tt.section, "-noise-dur", "0.5"}, &stdout, io.Discard)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, stdout.String(), w)
			}
		})
	}

	err := run([]string{"analyze", "-section", "phase"}, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestAnalyzeNoiseWindow(t *testing.T) {
	var stdout bytes.Buffer

	err := run([]string{"analyze", "-section", "noise", "-noise-dur", "0.5", "-window", "flattop"}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Window flattop: ENBW 3.77 bins")

	err = run([]string{"analyze", "-window", "kaiser"}, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestStreamRead(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	panel := registerPanelFlags(fs)
	require.NoError(t, fs.Parse(nil))

	in, err := panel.inputs(48000)
	require.NoError(t, err)

	m, err := panel.module(128)
	require.NoError(t, err)

	loop := make([]float64, 480)
	for i := range loop {
		loop[i] = 0.8 * math.Sin(2*math.Pi*float64(i)/480)
	}

	st := newStream(m, m.Params(in), loop, 1)

	buf := make([]byte, 1000*bytesPerSample)
	n, err := st.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, int64(1000), st.Frames())
	assert.Greater(t, st.Envelope(), 0.0)

	nonZero := false
	for i := range 1000 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*bytesPerSample:]))
		require.False(t, math.IsNaN(float64(v)))
		require.LessOrEqual(t, math.Abs(float64(v)), 1.0)

		if v != 0 {
			nonZero = true
		}
	}

	assert.True(t, nonZero)

	off := m.Params(in)
	off.Enabled = false
	st.SetParams(off)

	_, err = st.Read(buf)
	require.NoError(t, err)

	for i := range 1000 {
		require.Zero(t, binary.LittleEndian.Uint32(buf[i*bytesPerSample:]))
	}
}

func TestMeter(t *testing.T) {
	assert.Contains(t, meter(0), " 0.00 V")
	assert.Contains(t, meter(1), "["+string(bytes.Repeat([]byte("#"), meterWidth))+"]")
	assert.Contains(t, meter(0.05), " 5.00 V")
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
