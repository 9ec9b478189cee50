package encoder

import (
	"github.com/cockroachdb/errors"

	"github.com/linuxmatters/stemfire/internal/config"
)

// FrameEncoder turns 16-bit PCM frames into compressed bytes. A frame may
// produce no output while the codec buffers; Flush drains what is left and
// must be called exactly once after the final frame.
type FrameEncoder interface {
	EncodeFrame(pcm []int16) ([]byte, error)
	Flush() ([]byte, error)
}

// Factory constructs a FrameEncoder for one stem.
type Factory func(p Params) (FrameEncoder, error)

// Params are the codec settings for one stem.
type Params struct {
	SampleRate  int
	Channels    int
	BitrateKbps int
	Quality     int
}

// DefaultParams returns the fixed stem settings: mono, 128 kb/s CBR at the
// source sample rate.
func DefaultParams(sampleRate int) Params {
	return Params{
		SampleRate:  sampleRate,
		Channels:    config.EncoderChannels,
		BitrateKbps: config.BitrateKbps,
		Quality:     config.EncoderQuality,
	}
}

// Validate rejects settings the codec cannot honour.
func (p Params) Validate() error {
	if !config.IsSupportedSampleRate(p.SampleRate) {
		return errors.Mark(errors.Newf("unsupported sample rate %d Hz", p.SampleRate), ErrEncoderInit)
	}
	if p.Channels < 1 || p.Channels > 2 {
		return errors.Mark(errors.Newf("unsupported channel count %d", p.Channels), ErrEncoderInit)
	}
	if p.BitrateKbps <= 0 {
		return errors.Mark(errors.Newf("invalid bitrate %d kb/s", p.BitrateKbps), ErrEncoderInit)
	}
	return nil
}
