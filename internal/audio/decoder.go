package audio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrDecode marks every failure raised while turning an input file into a
// Waveform. Callers see it before any separation work starts.
var ErrDecode = errors.New("decode failed")

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// decodeBlock is how many frames Decode pulls per ReadChunk call.
const decodeBlock = 64 * 1024

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads up to numFrames sample frames, returned planar
	// (one slice per channel). Returns io.EOF when no frames remain.
	ReadChunk(numFrames int) ([][]float32, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of audio channels (1=mono, 2=stereo)
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// Open picks a decoder from the file extension.
func Open(filename string) (AudioDecoder, error) {
	var (
		dec AudioDecoder
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav", ".wave":
		dec, err = NewWAVDecoder(filename)
	case ".mp3":
		dec, err = NewMP3Decoder(filename)
	case ".flac":
		dec, err = NewFLACDecoder(filename)
	default:
		err = errors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", filename), ErrDecode)
	}
	return dec, nil
}

// Decode drains dec into a Waveform. The decoder is not closed.
func Decode(dec AudioDecoder) (*Waveform, error) {
	numChans := dec.NumChannels()
	if numChans <= 0 {
		return nil, errors.Mark(errors.Newf("decoder reports %d channels", numChans), ErrDecode)
	}
	if dec.SampleRate() <= 0 {
		return nil, errors.Mark(errors.Newf("decoder reports sample rate %d", dec.SampleRate()), ErrDecode)
	}

	channels := make([][]float32, numChans)
	for {
		block, err := dec.ReadChunk(decodeBlock)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "reading samples"), ErrDecode)
		}
		if len(block) != numChans {
			return nil, errors.Mark(
				errors.Newf("decoder returned %d channels, expected %d", len(block), numChans),
				ErrDecode)
		}
		for ch := range channels {
			channels[ch] = append(channels[ch], block[ch]...)
		}
	}

	w := &Waveform{SampleRate: dec.SampleRate(), Channels: channels}
	if err := w.Validate(); err != nil {
		return nil, errors.Mark(err, ErrDecode)
	}
	return w, nil
}

// DecodeFile opens, decodes and closes filename.
func DecodeFile(filename string) (*Waveform, error) {
	dec, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	w, err := Decode(dec)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filename)
	}
	return w, nil
}
