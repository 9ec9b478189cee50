package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	file        *os.File
	sampleRate  int
	numSamples  int64
	numChannels int
	position    int64

	// Samples decoded from the last frame but not yet returned
	pending [][]float32
}

// NewFLACDecoder creates a new FLAC decoder
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	numChannels := int(stream.Info.NChannels)
	if numChannels == 0 {
		stream.Close()
		f.Close()
		return nil, fmt.Errorf("FLAC stream reports no channels")
	}

	return &FLACDecoder{
		stream:      stream,
		file:        f,
		sampleRate:  int(stream.Info.SampleRate),
		numSamples:  int64(stream.Info.NSamples),
		numChannels: numChannels,
		pending:     make([][]float32, numChannels),
	}, nil
}

// ReadChunk reads the next chunk of sample frames
func (d *FLACDecoder) ReadChunk(numFrames int) ([][]float32, error) {
	// NSamples of 0 means unknown length; rely on the stream's EOF then
	if d.numSamples > 0 && d.position >= d.numSamples && len(d.pending[0]) == 0 {
		return nil, io.EOF
	}

	for len(d.pending[0]) < numFrames {
		frame, err := d.stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}
		if len(frame.Subframes) != d.numChannels {
			return nil, fmt.Errorf("FLAC frame has %d subframes, stream has %d channels", len(frame.Subframes), d.numChannels)
		}

		// Normalize to [-1.0, 1.0] based on bits per sample (4-32 bits)
		maxVal := float32(int64(1) << (frame.BitsPerSample - 1))
		for ch, subframe := range frame.Subframes {
			for _, s := range subframe.Samples {
				d.pending[ch] = append(d.pending[ch], float32(s)/maxVal)
			}
		}
	}

	frames := len(d.pending[0])
	if frames == 0 {
		return nil, io.EOF
	}
	if frames > numFrames {
		frames = numFrames
	}

	out := make([][]float32, d.numChannels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		copy(out[ch], d.pending[ch][:frames])
		d.pending[ch] = d.pending[ch][frames:]
	}

	d.position += int64(frames)
	return out, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the total number of samples per channel
func (d *FLACDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		d.stream.Close()
		d.stream = nil
	}
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
