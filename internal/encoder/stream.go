package encoder

import (
	"time"

	"github.com/linuxmatters/stemfire/internal/stems"
)

// Stream is one encoded stem: the byte blocks emitted per frame, in order,
// followed by the flush block. It is not modified after EncodeStem returns.
type Stream struct {
	Stem       stems.Kind
	SampleRate int
	Samples    int
	Frames     int
	Blocks     [][]byte
}

// Len returns the total encoded size in bytes.
func (s *Stream) Len() int {
	n := 0
	for _, b := range s.Blocks {
		n += len(b)
	}
	return n
}

// Bytes concatenates the blocks into one file body.
func (s *Stream) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for _, b := range s.Blocks {
		out = append(out, b...)
	}
	return out
}

// Duration returns the playback length of the source samples.
func (s *Stream) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Samples) / float64(s.SampleRate) * float64(time.Second))
}
