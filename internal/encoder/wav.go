package encoder

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/linuxmatters/stemfire/internal/config"
)

// wavPCMFormat is the WAVE_FORMAT_PCM tag.
const wavPCMFormat = 1

// wavBlockFrames is how many samples are converted per encoder write.
const wavBlockFrames = 64 * 1024

// WriteWAV writes samples as a mono 16-bit PCM WAV file, using the same
// clamp and scale as the MP3 path.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return errors.Mark(errors.Newf("invalid sample rate %d", sampleRate), ErrEncoderInit)
	}

	enc := wav.NewEncoder(w, sampleRate, config.WAVBitDepth, 1, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: config.WAVBitDepth,
	}

	for start := 0; start < len(samples); start += wavBlockFrames {
		end := min(start+wavBlockFrames, len(samples))
		block := samples[start:end]

		if cap(buf.Data) < len(block) {
			buf.Data = make([]int, len(block))
		}
		buf.Data = buf.Data[:len(block)]
		for i, s := range block {
			buf.Data[i] = int(ToInt16(s))
		}

		if err := enc.Write(buf); err != nil {
			return errors.Mark(errors.Wrap(err, "writing wav samples"), ErrEncode)
		}
	}

	// The header is only written alongside the first block
	if len(samples) == 0 {
		if err := enc.Write(buf); err != nil {
			return errors.Mark(errors.Wrap(err, "writing wav header"), ErrEncode)
		}
	}

	if err := enc.Close(); err != nil {
		return errors.Mark(errors.Wrap(err, "finalising wav"), ErrEncode)
	}
	return nil
}

// WriteWAVFile creates path and writes samples to it with WriteWAV.
func WriteWAVFile(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	if err := WriteWAV(f, samples, sampleRate); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
