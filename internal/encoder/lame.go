package encoder

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/viert/lame"
)

// LameEncoder encodes MP3 frames through libmp3lame. The LAME writer sinks
// into an in-memory buffer which is drained after every frame, so each call
// returns exactly the bytes that frame produced.
type LameEncoder struct {
	wr       *lame.LameWriter
	out      bytes.Buffer
	channels int
	pcm      []byte
	flushed  bool
}

// NewLameEncoder validates p and configures a constant bitrate encoder.
func NewLameEncoder(p Params) (*LameEncoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := &LameEncoder{channels: p.Channels}
	e.wr = lame.NewWriter(&e.out)
	e.wr.Encoder.SetBitrate(p.BitrateKbps)
	e.wr.Encoder.SetQuality(p.Quality)
	e.wr.Encoder.SetNumChannels(p.Channels)
	e.wr.Encoder.SetInSamplerate(p.SampleRate)
	if p.Channels == 1 {
		e.wr.Encoder.SetMode(lame.MONO)
	} else {
		e.wr.Encoder.SetMode(lame.JOINT_STEREO)
	}
	e.wr.Encoder.SetVBR(lame.VBR_OFF)
	if err := initResult(e.wr.Encoder.InitParams()); err != nil {
		e.wr.Encoder.Close()
		return nil, err
	}

	return e, nil
}

// initResult maps the lame_init_params return code onto ErrEncoderInit.
func initResult(rc int) error {
	if rc < 0 {
		return errors.Mark(errors.Newf("lame_init_params returned %d", rc), ErrEncoderInit)
	}
	return nil
}

// LameFactory is a Factory backed by NewLameEncoder.
func LameFactory(p Params) (FrameEncoder, error) {
	e, err := NewLameEncoder(p)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EncodeFrame feeds one frame of interleaved PCM to LAME.
func (e *LameEncoder) EncodeFrame(pcm []int16) ([]byte, error) {
	if e.flushed {
		return nil, errors.Mark(errors.New("frame after flush"), ErrEncode)
	}
	if len(pcm)%e.channels != 0 {
		return nil, errors.Mark(
			errors.Newf("%d samples do not divide into %d channels", len(pcm), e.channels), ErrEncode)
	}

	e.pcm = PCMBytes(e.pcm, pcm)
	if _, err := e.wr.Write(e.pcm); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "lame write"), ErrEncode)
	}
	return e.drain(), nil
}

// Flush finalises the stream and releases the LAME handle.
func (e *LameEncoder) Flush() ([]byte, error) {
	if e.flushed {
		return nil, nil
	}
	e.flushed = true
	defer e.wr.Encoder.Close()

	if err := e.wr.Close(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "lame flush"), ErrEncode)
	}
	return e.drain(), nil
}

func (e *LameEncoder) drain() []byte {
	if e.out.Len() == 0 {
		return nil
	}
	block := make([]byte, e.out.Len())
	copy(block, e.out.Bytes())
	e.out.Reset()
	return block
}
