package separate

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/linuxmatters/stemfire/internal/stems"
)

// Result holds the three finished stems. The buffers are frozen: readers
// may share them across goroutines but must not write to them.
type Result struct {
	SampleRate int
	Chunks     int

	Vocal      []float32
	Instrument []float32
	Chorus     []float32
}

// Len returns the per-stem sample count.
func (r *Result) Len() int {
	return len(r.Vocal)
}

// Stem returns the buffer for kind.
func (r *Result) Stem(kind stems.Kind) []float32 {
	switch kind {
	case stems.Vocal:
		return r.Vocal
	case stems.Instrument:
		return r.Instrument
	case stems.Chorus:
		return r.Chorus
	}
	return nil
}

type span struct {
	offset, end int
}

// Assembler owns the three full-length stem buffers while chunks are
// written into them. Writes may arrive in any order but every index must
// be written exactly once before Freeze succeeds.
type Assembler struct {
	mu sync.Mutex

	vocal      []float32
	instrument []float32
	chorus     []float32

	// Written ranges, sorted by offset
	spans   []span
	written int
	frozen  bool
}

// NewAssembler allocates three buffers of total samples each.
func NewAssembler(total int) (*Assembler, error) {
	if total < 0 {
		return nil, errors.Wrapf(ErrAllocation, "negative length %d", total)
	}

	a := &Assembler{}
	var err error
	if a.vocal, err = allocate(total); err != nil {
		return nil, err
	}
	if a.instrument, err = allocate(total); err != nil {
		return nil, err
	}
	if a.chorus, err = allocate(total); err != nil {
		return nil, err
	}
	return a, nil
}

// allocate converts the runtime's makeslice panic into an error. A genuine
// out-of-memory condition still kills the process.
func allocate(n int) (buf []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = errors.Wrapf(ErrAllocation, "%d samples: %v", n, r)
		}
	}()
	return make([]float32, n), nil
}

// Write copies one chunk's outputs into place at chunk.Offset.
func (a *Assembler) Write(chunk Chunk, vocal, instrument, chorus []float32) error {
	n := chunk.Len()
	if len(vocal) != n || len(instrument) != n || len(chorus) != n {
		return errors.Wrapf(ErrLengthMismatch, "chunk %d spans %d samples, got %d/%d/%d",
			chunk.Index, n, len(vocal), len(instrument), len(chorus))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.frozen {
		return ErrFrozen
	}
	if chunk.Offset < 0 || chunk.End > len(a.vocal) || n < 0 {
		return errors.Wrapf(ErrOutOfRange, "[%d, %d) of %d samples", chunk.Offset, chunk.End, len(a.vocal))
	}
	if n == 0 {
		return nil
	}

	pos, err := a.claim(span{chunk.Offset, chunk.End})
	if err != nil {
		return err
	}

	copy(a.vocal[chunk.Offset:chunk.End], vocal)
	copy(a.instrument[chunk.Offset:chunk.End], instrument)
	copy(a.chorus[chunk.Offset:chunk.End], chorus)

	a.spans = append(a.spans, span{})
	copy(a.spans[pos+1:], a.spans[pos:])
	a.spans[pos] = span{chunk.Offset, chunk.End}
	a.written += n
	return nil
}

// claim finds the insertion point for s and rejects overlap with
// neighbouring spans.
func (a *Assembler) claim(s span) (int, error) {
	pos := sort.Search(len(a.spans), func(i int) bool {
		return a.spans[i].offset >= s.offset
	})
	if pos > 0 && a.spans[pos-1].end > s.offset {
		prev := a.spans[pos-1]
		return 0, errors.Wrapf(ErrOverlap, "[%d, %d) overlaps [%d, %d)", s.offset, s.end, prev.offset, prev.end)
	}
	if pos < len(a.spans) && a.spans[pos].offset < s.end {
		next := a.spans[pos]
		return 0, errors.Wrapf(ErrOverlap, "[%d, %d) overlaps [%d, %d)", s.offset, s.end, next.offset, next.end)
	}
	return pos, nil
}

// Written returns how many samples per stem have been filled.
func (a *Assembler) Written() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.written
}

// Freeze hands the buffers off as a Result. It fails unless every index
// has been written.
func (a *Assembler) Freeze(sampleRate, chunks int) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.frozen {
		return nil, ErrFrozen
	}
	if a.written != len(a.vocal) {
		return nil, errors.Wrapf(ErrIncomplete, "%d of %d samples written", a.written, len(a.vocal))
	}

	a.frozen = true
	return &Result{
		SampleRate: sampleRate,
		Chunks:     chunks,
		Vocal:      a.vocal,
		Instrument: a.instrument,
		Chorus:     a.chorus,
	}, nil
}

// Discard releases the buffers of an aborted run.
func (a *Assembler) Discard() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.vocal, a.instrument, a.chorus = nil, nil, nil
	a.spans = nil
	a.written = 0
	a.frozen = true
}
