// Package analysis characterizes how joints followed their commands.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled signal
//   - [DominantFrequency]: strongest non-DC oscillation, in Hz
//   - [SettlingTime]: when a tracking error entered and stayed in a band
//
// A joint driven too hard by the dynamic drive rings at a visible
// dominant frequency in its tracking error:
//
//	hz := analysis.DominantFrequency(errs, dt)
package analysis
