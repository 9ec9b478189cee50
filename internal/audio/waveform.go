package audio

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidWaveform marks waveforms that break the shape invariants.
var ErrInvalidWaveform = errors.New("invalid waveform")

// Waveform is a decoded, planar audio buffer. Every channel holds the same
// number of samples in nominal [-1, 1] range. The separation core reads it
// without mutating it.
type Waveform struct {
	SampleRate int
	Channels   [][]float32
}

// NewMono wraps a single channel.
func NewMono(samples []float32, sampleRate int) *Waveform {
	return &Waveform{SampleRate: sampleRate, Channels: [][]float32{samples}}
}

// NewStereo wraps a left/right pair.
func NewStereo(left, right []float32, sampleRate int) *Waveform {
	return &Waveform{SampleRate: sampleRate, Channels: [][]float32{left, right}}
}

// NumChannels returns the channel count.
func (w *Waveform) NumChannels() int {
	return len(w.Channels)
}

// Len returns the number of samples per channel.
func (w *Waveform) Len() int {
	if len(w.Channels) == 0 {
		return 0
	}
	return len(w.Channels[0])
}

// Duration returns the playback length.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.Len()) / float64(w.SampleRate) * float64(time.Second))
}

// Left returns the first channel.
func (w *Waveform) Left() []float32 {
	return w.Channels[0]
}

// Right returns the second channel, or the first for mono sources.
func (w *Waveform) Right() []float32 {
	if len(w.Channels) > 1 {
		return w.Channels[1]
	}
	return w.Channels[0]
}

// Validate checks the sample rate and that all channels share one length.
func (w *Waveform) Validate() error {
	if w == nil {
		return errors.Mark(errors.New("nil waveform"), ErrInvalidWaveform)
	}
	if w.SampleRate <= 0 {
		return errors.Mark(errors.Newf("sample rate must be positive, got %d", w.SampleRate), ErrInvalidWaveform)
	}
	if len(w.Channels) == 0 {
		return errors.Mark(errors.New("waveform has no channels"), ErrInvalidWaveform)
	}
	n := len(w.Channels[0])
	for ch, samples := range w.Channels[1:] {
		if len(samples) != n {
			return errors.Mark(
				errors.Newf("channel %d has %d samples, channel 0 has %d", ch+1, len(samples), n),
				ErrInvalidWaveform)
		}
	}
	return nil
}
