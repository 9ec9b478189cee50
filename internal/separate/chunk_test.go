package separate

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/stemfire/internal/audio"
	"github.com/linuxmatters/stemfire/internal/config"
)

func collectChunks(c *Chunker) []Chunk {
	var out []Chunk
	for {
		chunk, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, chunk)
	}
}

func TestChunkerTilesWithoutGaps(t *testing.T) {
	testCases := []struct {
		name      string
		total     int
		chunkSize int
		want      int
	}{
		{name: "exact multiple", total: 300, chunkSize: 100, want: 3},
		{name: "short tail", total: 301, chunkSize: 100, want: 4},
		{name: "single short chunk", total: 50, chunkSize: 100, want: 1},
		{name: "chunk of one", total: 5, chunkSize: 1, want: 5},
		{name: "empty", total: 0, chunkSize: 100, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := audio.NewStereo(make([]float32, tc.total), make([]float32, tc.total), 8000)
			c := NewChunker(w, tc.chunkSize)
			assert.Equal(t, tc.want, c.Count())

			chunks := collectChunks(c)
			require.Len(t, chunks, tc.want)

			next := 0
			for i, chunk := range chunks {
				assert.Equal(t, i, chunk.Index)
				assert.Equal(t, next, chunk.Offset, "chunk %d must start where the previous ended", i)
				assert.LessOrEqual(t, chunk.Len(), tc.chunkSize)
				assert.Greater(t, chunk.Len(), 0)
				assert.Equal(t, i == len(chunks)-1, chunk.Last)
				next = chunk.End
			}
			assert.Equal(t, tc.total, next)
		})
	}
}

func TestChunkerIsNotRestartable(t *testing.T) {
	w := audio.NewMono(make([]float32, 10), 8000)
	c := NewChunker(w, 4)

	assert.Len(t, collectChunks(c), 3)
	_, ok := c.Next()
	assert.False(t, ok)
}

func TestChunkerSplitStereo(t *testing.T) {
	left := []float32{1, 2, 3, 4, 5}
	right := []float32{-1, -2, -3, -4, -5}
	c := NewChunker(audio.NewStereo(left, right, 8000), 2)

	chunks := collectChunks(c)
	require.Len(t, chunks, 3)

	l, r, err := c.Split(chunks[1])
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, l)
	assert.Equal(t, []float32{-3, -4}, r)

	l, r, err = c.Split(chunks[2])
	require.NoError(t, err)
	assert.Equal(t, []float32{5}, l)
	assert.Equal(t, []float32{-5}, r)
}

func TestChunkerSplitMonoAliasesLeft(t *testing.T) {
	samples := []float32{0.1, 0.2, 0.3}
	c := NewChunker(audio.NewMono(samples, 8000), 3)

	chunk, ok := c.Next()
	require.True(t, ok)

	l, r, err := c.Split(chunk)
	require.NoError(t, err)
	assert.Equal(t, l, r)
	assert.Same(t, &l[0], &r[0])
}

func TestChunkerSplitOutOfRange(t *testing.T) {
	c := NewChunker(audio.NewMono(make([]float32, 10), 8000), 5)

	for _, chunk := range []Chunk{
		{Offset: -1, End: 3},
		{Offset: 5, End: 11},
		{Offset: 6, End: 4},
	} {
		_, _, err := c.Split(chunk)
		assert.True(t, errors.Is(err, ErrOutOfRange), "chunk %+v", chunk)
	}
}

func TestChunkerSplitCannotGrowIntoNeighbour(t *testing.T) {
	c := NewChunker(audio.NewMono(make([]float32, 10), 8000), 5)
	chunk, _ := c.Next()

	l, _, err := c.Split(chunk)
	require.NoError(t, err)
	assert.Equal(t, 5, cap(l))
}

func TestChunkerDefaultSize(t *testing.T) {
	const rate = 8000
	size := config.ChunkSize(rate)
	w := audio.NewMono(make([]float32, 2*size+1), rate)

	for _, chunkSize := range []int{0, -3} {
		c := NewChunker(w, chunkSize)
		assert.Equal(t, 3, c.Count())

		first, ok := c.Next()
		require.True(t, ok)
		assert.Equal(t, size, first.Len())
	}
}
