// Package separate splits a stereo waveform into vocal, instrument and
// chorus stems with a per-sample mid/side soft mask, one fixed-size chunk
// at a time.
package separate

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/stemfire/internal/audio"
	"github.com/linuxmatters/stemfire/internal/config"
	"github.com/linuxmatters/stemfire/internal/logging"
)

// Progress is reported after each chunk lands in the stem buffers.
type Progress struct {
	Chunk       Chunk
	TotalChunks int
	Elapsed     time.Duration
}

// ProgressFunc receives chunk progress. With more than one worker it may be
// called from several goroutines, never concurrently.
type ProgressFunc func(Progress)

type options struct {
	chunkSize int
	workers   int
	yielder   Yielder
	progress  ProgressFunc
	logger    logging.Logger
}

// Option configures Separate.
type Option func(*options)

// WithChunkSize overrides the chunk length in samples. Values <= 0 keep
// the default of config.ChunkSeconds of audio.
func WithChunkSize(samples int) Option {
	return func(o *options) { o.chunkSize = samples }
}

// WithWorkers processes up to n chunks at once. The default of 1 keeps the
// strictly sequential schedule.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithYielder replaces the between-chunk suspension point.
func WithYielder(y Yielder) Option {
	return func(o *options) { o.yielder = y }
}

// WithProgress registers a per-chunk progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithLogger sends per-chunk debug output to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Separate runs the whole pipeline over w and returns the three frozen
// stems. On any failure, including cancellation, the partially filled
// buffers are dropped and a *StageError is returned.
func Separate(ctx context.Context, w *audio.Waveform, opts ...Option) (*Result, error) {
	o := options{
		workers: 1,
		yielder: GoschedYielder{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := w.Validate(); err != nil {
		return nil, stageErr(StageValidate, -1, errors.Mark(err, ErrInvalidInput))
	}
	if o.chunkSize <= 0 {
		o.chunkSize = config.ChunkSize(w.SampleRate)
	}
	if err := ctx.Err(); err != nil {
		return nil, stageErr(StageSchedule, -1, errors.Mark(err, ErrCanceled))
	}

	asm, err := NewAssembler(w.Len())
	if err != nil {
		return nil, stageErr(StageAllocate, -1, err)
	}

	chunker := NewChunker(w, o.chunkSize)
	r := &run{
		opts:    o,
		chunker: chunker,
		asm:     asm,
		total:   chunker.Count(),
		start:   time.Now(),
	}

	o.logger.WithFields(logrus.Fields{
		"samples":     w.Len(),
		"sample_rate": w.SampleRate,
		"channels":    w.NumChannels(),
		"chunk_size":  o.chunkSize,
		"chunks":      r.total,
		"workers":     o.workers,
	}).Debug("separation starting")

	if o.workers > 1 {
		err = r.parallel(ctx)
	} else {
		err = r.sequential(ctx)
	}
	if err != nil {
		asm.Discard()
		return nil, err
	}

	res, err := asm.Freeze(w.SampleRate, r.total)
	if err != nil {
		asm.Discard()
		return nil, stageErr(StageAssemble, -1, err)
	}

	o.logger.Debugf("separation finished: %d chunks in %s", r.total, time.Since(r.start))
	return res, nil
}

type run struct {
	opts    options
	chunker *Chunker
	asm     *Assembler
	total   int
	start   time.Time

	progressMu sync.Mutex
}

// sequential processes chunks in ascending order on the calling goroutine,
// yielding between chunks.
func (r *run) sequential(ctx context.Context) error {
	for {
		chunk, ok := r.chunker.Next()
		if !ok {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return stageErr(StageSchedule, chunk.Index, errors.Mark(err, ErrCanceled))
		}
		if err := r.process(chunk); err != nil {
			return err
		}

		if !chunk.Last {
			if err := r.opts.yielder.Yield(ctx); err != nil {
				return stageErr(StageSchedule, chunk.Index, errors.Mark(err, ErrCanceled))
			}
		}
	}
}

// parallel fans chunks out over a bounded worker pool. Chunks are still
// generated in ascending order; only their processing overlaps.
func (r *run) parallel(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers)

	var yieldErr error
	for {
		chunk, ok := r.chunker.Next()
		if !ok {
			break
		}
		if err := gctx.Err(); err != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return stageErr(StageSchedule, chunk.Index, errors.Mark(err, ErrCanceled))
			}
			return r.process(chunk)
		})

		if !chunk.Last {
			if err := r.opts.yielder.Yield(gctx); err != nil {
				yieldErr = stageErr(StageSchedule, chunk.Index, errors.Mark(err, ErrCanceled))
				break
			}
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if yieldErr != nil {
		return yieldErr
	}
	// Dispatch may have stopped on cancellation without any worker failing
	if err := ctx.Err(); err != nil {
		return stageErr(StageSchedule, -1, errors.Mark(err, ErrCanceled))
	}
	return nil
}

// process runs one chunk through decomposition, masking and assembly.
func (r *run) process(chunk Chunk) error {
	left, right, err := r.chunker.Split(chunk)
	if err != nil {
		return stageErr(StageDecompose, chunk.Index, err)
	}

	vocal, instrument, chorus, err := MaskChunk(left, right)
	if err != nil {
		return stageErr(StageMask, chunk.Index, err)
	}

	if err := r.asm.Write(chunk, vocal, instrument, chorus); err != nil {
		return stageErr(StageAssemble, chunk.Index, err)
	}

	r.opts.logger.WithFields(logrus.Fields{
		"chunk":  chunk.Index,
		"offset": chunk.Offset,
		"end":    chunk.End,
	}).Debug("chunk assembled")

	if r.opts.progress != nil {
		r.progressMu.Lock()
		r.opts.progress(Progress{
			Chunk:       chunk,
			TotalChunks: r.total,
			Elapsed:     time.Since(r.start),
		})
		r.progressMu.Unlock()
	}
	return nil
}
