package separate

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/stemfire/internal/stems"
)

func filled(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAssemblerWritesAtOffset(t *testing.T) {
	a, err := NewAssembler(6)
	require.NoError(t, err)

	require.NoError(t, a.Write(Chunk{Index: 0, Offset: 0, End: 4}, filled(4, 1), filled(4, 2), filled(4, 3)))
	require.NoError(t, a.Write(Chunk{Index: 1, Offset: 4, End: 6, Last: true}, filled(2, 4), filled(2, 5), filled(2, 6)))

	res, err := a.Freeze(44100, 2)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 1, 1, 1, 4, 4}, res.Vocal)
	assert.Equal(t, []float32{2, 2, 2, 2, 5, 5}, res.Instrument)
	assert.Equal(t, []float32{3, 3, 3, 3, 6, 6}, res.Chorus)
	assert.Equal(t, 6, res.Len())
	assert.Equal(t, 44100, res.SampleRate)
	assert.Equal(t, 2, res.Chunks)

	assert.Equal(t, res.Vocal, res.Stem(stems.Vocal))
	assert.Equal(t, res.Instrument, res.Stem(stems.Instrument))
	assert.Equal(t, res.Chorus, res.Stem(stems.Chorus))
	assert.Nil(t, res.Stem(stems.Kind(9)))
}

// TestAssemblerOutOfOrderWrites confirms disjoint ranges may land in any
// order, as they do with several workers.
func TestAssemblerOutOfOrderWrites(t *testing.T) {
	a, err := NewAssembler(9)
	require.NoError(t, err)

	for _, c := range []Chunk{{Index: 2, Offset: 6, End: 9}, {Index: 0, Offset: 0, End: 3}, {Index: 1, Offset: 3, End: 6}} {
		v := float32(c.Index)
		require.NoError(t, a.Write(c, filled(3, v), filled(3, v), filled(3, v)))
	}

	res, err := a.Freeze(8000, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, res.Vocal)
}

func TestAssemblerRejectsOverlap(t *testing.T) {
	a, err := NewAssembler(10)
	require.NoError(t, err)
	require.NoError(t, a.Write(Chunk{Offset: 2, End: 6}, filled(4, 1), filled(4, 1), filled(4, 1)))

	for _, c := range []Chunk{
		{Offset: 2, End: 6},
		{Offset: 0, End: 3},
		{Offset: 5, End: 8},
		{Offset: 3, End: 4},
		{Offset: 0, End: 10},
	} {
		n := c.Len()
		err := a.Write(c, filled(n, 9), filled(n, 9), filled(n, 9))
		assert.True(t, errors.Is(err, ErrOverlap), "chunk %+v should overlap", c)
	}

	// The rejected writes must not have touched the buffers
	assert.Equal(t, 4, a.Written())
}

func TestAssemblerRejectsOutOfRange(t *testing.T) {
	a, err := NewAssembler(4)
	require.NoError(t, err)

	err = a.Write(Chunk{Offset: 2, End: 6}, filled(4, 1), filled(4, 1), filled(4, 1))
	assert.True(t, errors.Is(err, ErrOutOfRange))

	err = a.Write(Chunk{Offset: -2, End: 2}, filled(4, 1), filled(4, 1), filled(4, 1))
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestAssemblerRejectsLengthMismatch(t *testing.T) {
	a, err := NewAssembler(4)
	require.NoError(t, err)

	err = a.Write(Chunk{Offset: 0, End: 4}, filled(4, 1), filled(3, 1), filled(4, 1))
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestAssemblerFreezeRequiresFullCoverage(t *testing.T) {
	a, err := NewAssembler(4)
	require.NoError(t, err)
	require.NoError(t, a.Write(Chunk{Offset: 0, End: 2}, filled(2, 1), filled(2, 1), filled(2, 1)))

	_, err = a.Freeze(8000, 1)
	assert.True(t, errors.Is(err, ErrIncomplete))

	require.NoError(t, a.Write(Chunk{Offset: 2, End: 4}, filled(2, 1), filled(2, 1), filled(2, 1)))
	_, err = a.Freeze(8000, 2)
	require.NoError(t, err)

	err = a.Write(Chunk{Offset: 0, End: 1}, filled(1, 1), filled(1, 1), filled(1, 1))
	assert.True(t, errors.Is(err, ErrFrozen))

	_, err = a.Freeze(8000, 2)
	assert.True(t, errors.Is(err, ErrFrozen))
}

func TestAssemblerZeroLength(t *testing.T) {
	a, err := NewAssembler(0)
	require.NoError(t, err)

	res, err := a.Freeze(44100, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Instrument)
	assert.Empty(t, res.Chorus)
}

func TestAssemblerAllocationFailure(t *testing.T) {
	_, err := NewAssembler(-1)
	assert.True(t, errors.Is(err, ErrAllocation))

	_, err = NewAssembler(math.MaxInt)
	assert.True(t, errors.Is(err, ErrAllocation))
}

func TestAssemblerDiscard(t *testing.T) {
	a, err := NewAssembler(4)
	require.NoError(t, err)
	require.NoError(t, a.Write(Chunk{Offset: 0, End: 2}, filled(2, 1), filled(2, 1), filled(2, 1)))

	a.Discard()

	assert.Equal(t, 0, a.Written())
	_, err = a.Freeze(8000, 1)
	assert.True(t, errors.Is(err, ErrFrozen))
}
