package audio

import (
	"math"
	"testing"
)

func TestAnalyzeLevelsSilence(t *testing.T) {
	profile := AnalyzeLevels(make([]float32, 1024))

	if profile.Peak != 0 || profile.RMS != 0 {
		t.Errorf("Expected silent profile, got peak=%f rms=%f", profile.Peak, profile.RMS)
	}
	if profile.CrestFactor != 0 {
		t.Errorf("Expected zero crest factor for silence, got %f", profile.CrestFactor)
	}
	if !math.IsInf(profile.PeakDBFS(), -1) {
		t.Errorf("Expected -Inf dBFS peak for silence, got %f", profile.PeakDBFS())
	}
	if profile.NumSamples != 1024 {
		t.Errorf("Expected 1024 samples analyzed, got %d", profile.NumSamples)
	}
}

func TestAnalyzeLevelsEmpty(t *testing.T) {
	profile := AnalyzeLevels(nil)
	if profile.NumSamples != 0 || profile.RMS != 0 {
		t.Errorf("Expected zero profile for empty input, got %+v", profile)
	}
}

func TestAnalyzeLevelsConstant(t *testing.T) {
	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = -0.5
	}

	profile := AnalyzeLevels(samples)

	if math.Abs(profile.Peak-0.5) > 1e-9 {
		t.Errorf("Expected peak 0.5, got %f", profile.Peak)
	}
	if math.Abs(profile.RMS-0.5) > 1e-9 {
		t.Errorf("Expected RMS 0.5, got %f", profile.RMS)
	}
	if math.Abs(profile.CrestFactor-1.0) > 1e-9 {
		t.Errorf("Expected crest factor 1.0, got %f", profile.CrestFactor)
	}
	// 20*log10(0.5) ≈ -6.02 dB
	if math.Abs(profile.PeakDBFS()+6.0206) > 1e-3 {
		t.Errorf("Expected -6.02 dBFS, got %f", profile.PeakDBFS())
	}
}

// TestAnalyzeLevelsCountsClipping checks that only magnitudes strictly
// above full scale count as clipped.
func TestAnalyzeLevelsCountsClipping(t *testing.T) {
	samples := []float32{1.0, -1.0, 1.5, -2.0, 0.25, 1.0001}

	profile := AnalyzeLevels(samples)

	if profile.ClippedSamples != 3 {
		t.Errorf("Expected 3 clipped samples, got %d", profile.ClippedSamples)
	}
	if profile.Peak != 2.0 {
		t.Errorf("Expected peak 2.0, got %f", profile.Peak)
	}
}

func TestAnalyzeLevelsSine(t *testing.T) {
	const n = 44100
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.8 * math.Sin(2*math.Pi*441*float64(i)/n))
	}

	profile := AnalyzeLevels(samples)

	// RMS of a sine is amplitude/√2
	wantRMS := 0.8 / math.Sqrt2
	if math.Abs(profile.RMS-wantRMS) > 1e-3 {
		t.Errorf("Expected RMS %.4f, got %.4f", wantRMS, profile.RMS)
	}
	if math.Abs(profile.CrestFactor-math.Sqrt2) > 1e-2 {
		t.Errorf("Expected crest factor √2, got %.4f", profile.CrestFactor)
	}
}
