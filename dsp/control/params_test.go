package control

import (
	"math"
	"testing"
)

func TestParamsResonanceReclamped(t *testing.T) {
	p := Params{ResonanceCVCode: 4095, ResonanceKnobCode: 4095}
	if got := p.Resonance(); got != MaxCode {
		t.Fatalf("Resonance() = %d, want %d", got, MaxCode)
	}
}

func TestParamsRateFallback(t *testing.T) {
	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if got := (Params{SampleRate: sr}).Rate(); got != DefaultSampleRate {
			t.Fatalf("Rate() with %v = %v, want %v", sr, got, DefaultSampleRate)
		}
	}

	if got := (Params{SampleRate: 96000}).Rate(); got != 96000 {
		t.Fatalf("Rate() = %v, want 96000", got)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if !p.Enabled {
		t.Fatal("default params should be enabled")
	}

	if p.FilterMode != FilterTwoPass || p.EnvelopeMode != EnvelopeFast || p.NoiseMode != NoiseBrown {
		t.Fatalf("unexpected default modes: %+v", p)
	}

	if p.Resonance() != 2047 {
		t.Fatalf("default resonance = %d, want 2047", p.Resonance())
	}
}

func TestModeStringsAndParse(t *testing.T) {
	for m := FilterTwoPass; m < filterModeCount; m++ {
		got, err := ParseFilterMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseFilterMode(%q) = %v, %v", m.String(), got, err)
		}
	}

	for m := EnvelopeFast; m < envelopeModeCount; m++ {
		got, err := ParseEnvelopeMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseEnvelopeMode(%q) = %v, %v", m.String(), got, err)
		}
	}

	for m := NoiseBrown; m < noiseModeCount; m++ {
		got, err := ParseNoiseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseNoiseMode(%q) = %v, %v", m.String(), got, err)
		}
	}

	for b := BlendOff; b < noiseBlendCount; b++ {
		got, err := ParseNoiseBlend(b.String())
		if err != nil || got != b {
			t.Fatalf("ParseNoiseBlend(%q) = %v, %v", b.String(), got, err)
		}
	}

	if _, err := ParseNoiseMode("violet"); err == nil {
		t.Fatal("expected error for unknown noise mode")
	}

	if FilterMode(7).Valid() || FilterMode(7).String() != "FilterMode(7)" {
		t.Fatal("unexpected handling of invalid filter mode")
	}

	if FilterMode(7).Stages() != 2 || FilterOnePass.Stages() != 1 {
		t.Fatal("unexpected stage counts")
	}
}
