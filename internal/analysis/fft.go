package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum
// of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the largest non-DC bin
// of data sampled every dt seconds, or 0 when there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 2 || dt <= 0 {
		return 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || peak < 1e-9 {
		return 0
	}
	return float64(best) / (float64(len(centered)) * dt)
}
