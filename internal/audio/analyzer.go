package audio

import (
	"math"
)

// LevelProfile holds amplitude statistics for one rendered stem
type LevelProfile struct {
	// Highest absolute sample value
	Peak float64

	// Root mean square over the whole buffer
	RMS float64

	// Ratio of Peak to RMS
	CrestFactor float64

	// Samples outside [-1, 1] that the encoder will clamp
	ClippedSamples int

	// Number of samples analyzed
	NumSamples int
}

// PeakDBFS returns the peak in decibels relative to full scale.
// Silence reports negative infinity.
func (p LevelProfile) PeakDBFS() float64 {
	if p.Peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(p.Peak)
}

// RMSDBFS returns the RMS level in decibels relative to full scale.
func (p LevelProfile) RMSDBFS() float64 {
	if p.RMS <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(p.RMS)
}

// AnalyzeLevels walks samples once and collects peak, RMS and clip counts
func AnalyzeLevels(samples []float32) LevelProfile {
	profile := LevelProfile{NumSamples: len(samples)}
	if len(samples) == 0 {
		return profile
	}

	var sumSquares float64
	for _, s := range samples {
		v := float64(s)
		sumSquares += v * v

		abs := math.Abs(v)
		if abs > profile.Peak {
			profile.Peak = abs
		}
		if abs > 1.0 {
			profile.ClippedSamples++
		}
	}
	profile.RMS = math.Sqrt(sumSquares / float64(len(samples)))

	// Avoid division by zero
	if profile.RMS > 0 {
		profile.CrestFactor = profile.Peak / profile.RMS
	}

	return profile
}
