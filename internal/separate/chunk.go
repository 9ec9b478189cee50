package separate

import (
	"github.com/cockroachdb/errors"

	"github.com/linuxmatters/stemfire/internal/audio"
	"github.com/linuxmatters/stemfire/internal/config"
)

// Chunk is the half-open sample range [Offset, End) of one processing step.
type Chunk struct {
	Index  int
	Offset int
	End    int
	Last   bool
}

// Len returns End - Offset.
func (c Chunk) Len() int {
	return c.End - c.Offset
}

// Chunker walks a waveform in fixed-size chunks, in ascending order.
// It is single-use: once exhausted it stays exhausted.
type Chunker struct {
	left  []float32
	right []float32
	total int
	size  int

	next  int
	index int
}

// NewChunker prepares a chunk walk over w. A mono waveform is treated as
// stereo with the right channel aliasing the left. A chunkSize <= 0 means
// config.ChunkSeconds of audio at the waveform's rate.
func NewChunker(w *audio.Waveform, chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = config.ChunkSize(w.SampleRate)
	}
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &Chunker{
		left:  w.Left(),
		right: w.Right(),
		total: w.Len(),
		size:  chunkSize,
	}
}

// Count returns how many chunks the walk produces in total.
func (c *Chunker) Count() int {
	return (c.total + c.size - 1) / c.size
}

// Next returns the following chunk, or false once [0, total) is covered.
func (c *Chunker) Next() (Chunk, bool) {
	if c.next >= c.total {
		return Chunk{}, false
	}

	end := c.next + c.size
	if end > c.total {
		end = c.total
	}
	chunk := Chunk{
		Index:  c.index,
		Offset: c.next,
		End:    end,
		Last:   end == c.total,
	}

	c.next = end
	c.index++
	return chunk, true
}

// Split returns the left and right samples for chunk. The slices share
// memory with the source waveform and must be treated as read-only.
func (c *Chunker) Split(chunk Chunk) (left, right []float32, err error) {
	if chunk.Offset < 0 || chunk.End > c.total || chunk.Offset > chunk.End {
		return nil, nil, errors.Wrapf(ErrOutOfRange, "[%d, %d) of %d samples", chunk.Offset, chunk.End, c.total)
	}
	return c.left[chunk.Offset:chunk.End:chunk.End], c.right[chunk.Offset:chunk.End:chunk.End], nil
}
