package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements AudioDecoder for WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
	numFrames  int64
	position   int64
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("invalid WAV file")
	}

	// Get format info without reading all samples
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	numChans := int(decoder.NumChans)
	bytesPerSample := int64(decoder.BitDepth / 8)
	if numChans == 0 || bytesPerSample == 0 {
		f.Close()
		return nil, fmt.Errorf("unsupported WAV layout: %d channels, %d bits", decoder.NumChans, decoder.BitDepth)
	}

	return &WAVDecoder{
		decoder:    decoder,
		file:       f,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   int(decoder.BitDepth),
		numChans:   numChans,
		numFrames:  decoder.PCMLen() / (bytesPerSample * int64(numChans)),
	}, nil
}

// ReadChunk reads the next chunk of sample frames
func (d *WAVDecoder) ReadChunk(numFrames int) ([][]float32, error) {
	if d.position >= d.numFrames {
		return nil, io.EOF
	}
	if d.position+int64(numFrames) > d.numFrames {
		numFrames = int(d.numFrames - d.position)
	}

	// Interleaved data: numFrames × numChans values
	intBuf := &audio.IntBuffer{
		Data: make([]int, numFrames*d.numChans),
		Format: &audio.Format{
			NumChannels: d.numChans,
			SampleRate:  d.sampleRate,
		},
	}

	n, err := d.decoder.PCMBuffer(intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	frames := n / d.numChans
	if frames == 0 {
		return nil, io.EOF
	}

	maxVal := float32(audio.IntMaxSignedValue(d.bitDepth))
	out := make([][]float32, d.numChans)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < d.numChans; ch++ {
			out[ch][i] = float32(intBuf.Data[i*d.numChans+ch]) / maxVal
		}
	}

	d.position += int64(frames)
	return out, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// NumFrames returns the total number of sample frames in the file
func (d *WAVDecoder) NumFrames() int64 {
	return d.numFrames
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
