package analysis

import "math"

// SettlingTime returns the time after which |errs| stays within tol, and
// false when the signal never settles.
func SettlingTime(times, errs []float64, tol float64) (float64, bool) {
	n := min(len(times), len(errs))
	if n == 0 {
		return 0, false
	}
	last := -1
	for i := 0; i < n; i++ {
		if math.Abs(errs[i]) > tol {
			last = i
		}
	}
	switch {
	case last == -1:
		return times[0], true
	case last == n-1:
		return 0, false
	default:
		return times[last+1], true
	}
}

// PeakError returns the largest |errs|.
func PeakError(errs []float64) float64 {
	peak := 0.0
	for _, e := range errs {
		peak = math.Max(peak, math.Abs(e))
	}
	return peak
}

// Errors returns commanded - sensed sample by sample.
func Errors(commanded, sensed []float64) []float64 {
	n := min(len(commanded), len(sensed))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = commanded[i] - sensed[i]
	}
	return out
}
