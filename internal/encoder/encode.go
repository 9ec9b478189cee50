// Package encoder converts finished stem buffers into compressed MP3
// streams and, optionally, 16-bit WAV files.
package encoder

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/stemfire/internal/config"
	"github.com/linuxmatters/stemfire/internal/stems"
)

// cancelCheckFrames is how many frames are encoded between context checks.
const cancelCheckFrames = 64

// Progress reports frames encoded so far for one stem.
type Progress struct {
	Stem        stems.Kind
	Frame       int
	TotalFrames int
	Done        bool
}

// ProgressFunc receives encode progress. EncodeStems serialises calls.
type ProgressFunc func(Progress)

type options struct {
	progress ProgressFunc
	params   func(sampleRate int) Params
}

// Option configures EncodeStem and EncodeStems.
type Option func(*options)

// WithProgress registers a progress callback, invoked every
// cancelCheckFrames frames and once when a stem finishes.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithParams overrides the codec settings derived from the sample rate.
func WithParams(fn func(sampleRate int) Params) Option {
	return func(o *options) { o.params = fn }
}

func buildOptions(opts []Option) options {
	o := options{params: DefaultParams}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// EncodeStem clamps and scales samples to 16-bit PCM, feeds them to a new
// encoder in EncoderFrameSize frames, flushes, and returns the emitted
// blocks in order. Empty input yields an empty stream without constructing
// an encoder. Every error is a *StemError naming kind.
func EncodeStem(ctx context.Context, kind stems.Kind, samples []float32, sampleRate int, factory Factory, opts ...Option) (*Stream, error) {
	o := buildOptions(opts)
	return encodeStem(ctx, kind, samples, sampleRate, factory, o)
}

func encodeStem(ctx context.Context, kind stems.Kind, samples []float32, sampleRate int, factory Factory, o options) (*Stream, error) {
	stream := &Stream{Stem: kind, SampleRate: sampleRate, Samples: len(samples)}
	if len(samples) == 0 {
		report(o, Progress{Stem: kind, Done: true})
		return stream, nil
	}

	enc, err := factory(o.params(sampleRate))
	if err != nil {
		if !errors.Is(err, ErrEncoderInit) {
			err = errors.Mark(err, ErrEncoderInit)
		}
		return nil, &StemError{Stem: kind, Err: err}
	}

	total := (len(samples) + config.EncoderFrameSize - 1) / config.EncoderFrameSize
	stream.Blocks = make([][]byte, 0, total+1)

	var frame []int16
	for i := 0; i < total; i++ {
		if i%cancelCheckFrames == 0 {
			if err := ctx.Err(); err != nil {
				// Release the native encoder before bailing out
				_, _ = enc.Flush()
				return nil, &StemError{Stem: kind, Err: err}
			}
			if i > 0 {
				report(o, Progress{Stem: kind, Frame: i, TotalFrames: total})
			}
		}

		start := i * config.EncoderFrameSize
		end := min(start+config.EncoderFrameSize, len(samples))
		frame = ToPCM16(frame, samples[start:end])

		block, err := enc.EncodeFrame(frame)
		if err != nil {
			_, _ = enc.Flush()
			return nil, &StemError{Stem: kind, Err: errors.Wrapf(err, "frame %d", i)}
		}
		stream.Blocks = append(stream.Blocks, block)
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, &StemError{Stem: kind, Err: errors.Wrap(err, "flush")}
	}
	stream.Blocks = append(stream.Blocks, tail)
	stream.Frames = total

	report(o, Progress{Stem: kind, Frame: total, TotalFrames: total, Done: true})
	return stream, nil
}

func report(o options, p Progress) {
	if o.progress != nil {
		o.progress(p)
	}
}

// Source exposes the frozen stem buffers to encode.
type Source interface {
	Stem(kind stems.Kind) []float32
}

// EncodeStems encodes every stem of src concurrently, each with its own
// encoder from factory. Streams come back in stems.All order. The first
// failure cancels the remaining encodes and is returned as a *StemError.
func EncodeStems(ctx context.Context, src Source, sampleRate int, factory Factory, opts ...Option) ([]*Stream, error) {
	o := buildOptions(opts)
	if o.progress != nil {
		var mu sync.Mutex
		fn := o.progress
		o.progress = func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			fn(p)
		}
	}

	out := make([]*Stream, len(stems.All))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.MaxParallelEncodes)

	for i, kind := range stems.All {
		samples := src.Stem(kind)
		g.Go(func() error {
			s, err := encodeStem(gctx, kind, samples, sampleRate, factory, o)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
