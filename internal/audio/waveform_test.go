package audio

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestWaveformValidate(t *testing.T) {
	testCases := []struct {
		name    string
		w       *Waveform
		wantErr bool
	}{
		{name: "stereo", w: NewStereo(make([]float32, 10), make([]float32, 10), 44100)},
		{name: "mono", w: NewMono(make([]float32, 10), 44100)},
		{name: "empty stereo", w: NewStereo(nil, nil, 44100)},
		{name: "nil", w: nil, wantErr: true},
		{name: "zero rate", w: NewMono(make([]float32, 10), 0), wantErr: true},
		{name: "negative rate", w: NewMono(make([]float32, 10), -1), wantErr: true},
		{name: "no channels", w: &Waveform{SampleRate: 44100}, wantErr: true},
		{name: "ragged", w: NewStereo(make([]float32, 10), make([]float32, 9), 44100), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidWaveform) {
					t.Errorf("Expected ErrInvalidWaveform mark, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestWaveformMonoRightAliasesLeft(t *testing.T) {
	samples := []float32{0.1, 0.2, 0.3}
	w := NewMono(samples, 8000)

	right := w.Right()
	if &right[0] != &samples[0] {
		t.Error("Expected mono Right() to alias the only channel")
	}
}

func TestWaveformDuration(t *testing.T) {
	w := NewMono(make([]float32, 88200), 44100)
	if w.Duration() != 2*time.Second {
		t.Errorf("Expected 2s, got %v", w.Duration())
	}

	if (&Waveform{}).Duration() != 0 {
		t.Error("Expected zero duration for empty waveform")
	}
}
