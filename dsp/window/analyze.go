package window

import (
	"errors"
	"math"
)

var (
	errEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
)

// Analysis holds spectral properties of a set of window coefficients.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// PowerGain is sum(w[n]^2) / N, the window's share of noise power.
	PowerGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main lobe width in bins.
	Bandwidth3dB float64
	// ScallopLossdB is the level error of a tone half a bin off centre.
	ScallopLossdB float64
}

// Analyze measures coefficients numerically. Windows with zero coherent
// gain have no defined noise bandwidth and are rejected.
func Analyze(coeffs []float64) (Analysis, error) {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}, errEmptyCoeffs
	}

	sum := 0.0
	sumSq := 0.0

	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}

	if sum == 0 {
		return Analysis{}, errZeroCoherentGain
	}

	nf := float64(n)
	dc := dftMagSq(coeffs, 0)

	return Analysis{
		CoherentGain:  sum / nf,
		PowerGain:     sumSq / nf,
		ENBW:          nf * sumSq / (sum * sum),
		Bandwidth3dB:  halfPowerWidth(coeffs, dc),
		ScallopLossdB: 10 * math.Log10(dftMagSq(coeffs, 0.5/nf)/dc),
	}, nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	a, err := Analyze(coeffs)
	if err != nil {
		return 0, err
	}

	return a.ENBW, nil
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency in [0, 0.5].
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq

	for k, c := range coeffs {
		phase := w * float64(k)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}

	return re*re + im*im
}

// halfPowerWidth bisects the main lobe for the -3 dB point. The search is
// bounded to four bins, wider than any main lobe half-width here.
func halfPowerWidth(coeffs []float64, dc float64) float64 {
	nf := float64(len(coeffs))

	lo, hi := 0.0, math.Min(0.5, 4/nf)
	for range 60 {
		mid := (lo + hi) / 2
		if dftMagSq(coeffs, mid)/dc > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 2 * lo * nf
}
