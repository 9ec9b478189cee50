package audio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

// fakeDecoder hands out pre-baked planar blocks.
type fakeDecoder struct {
	rate     int
	chans    int
	blocks   [][][]float32
	failWith error
	closed   bool
}

func (d *fakeDecoder) ReadChunk(int) ([][]float32, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}
	if len(d.blocks) == 0 {
		return nil, io.EOF
	}
	b := d.blocks[0]
	d.blocks = d.blocks[1:]
	return b, nil
}

func (d *fakeDecoder) SampleRate() int  { return d.rate }
func (d *fakeDecoder) NumChannels() int { return d.chans }
func (d *fakeDecoder) Close() error     { d.closed = true; return nil }

func TestDecodeConcatenatesBlocks(t *testing.T) {
	dec := &fakeDecoder{
		rate:  44100,
		chans: 2,
		blocks: [][][]float32{
			{{0.1, 0.2}, {-0.1, -0.2}},
			{{0.3}, {-0.3}},
		},
	}

	w, err := Decode(dec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if w.Len() != 3 {
		t.Fatalf("Expected 3 samples, got %d", w.Len())
	}
	want := []float32{0.1, 0.2, 0.3}
	for i, v := range want {
		if w.Left()[i] != v || w.Right()[i] != -v {
			t.Errorf("Sample %d = (%f, %f), want (%f, %f)", i, w.Left()[i], w.Right()[i], v, -v)
		}
	}
}

func TestDecodeEmptyStream(t *testing.T) {
	w, err := Decode(&fakeDecoder{rate: 48000, chans: 1})
	if err != nil {
		t.Fatalf("Decode of empty stream failed: %v", err)
	}
	if w.Len() != 0 {
		t.Errorf("Expected zero-length waveform, got %d samples", w.Len())
	}
	if w.NumChannels() != 1 {
		t.Errorf("Expected 1 channel, got %d", w.NumChannels())
	}
}

func TestDecodeFailuresAreMarked(t *testing.T) {
	testCases := []struct {
		name string
		dec  *fakeDecoder
	}{
		{
			name: "read error",
			dec:  &fakeDecoder{rate: 44100, chans: 2, failWith: errors.New("corrupt frame")},
		},
		{
			name: "zero sample rate",
			dec:  &fakeDecoder{rate: 0, chans: 2},
		},
		{
			name: "no channels",
			dec:  &fakeDecoder{rate: 44100, chans: 0},
		},
		{
			name: "channel count drift",
			dec: &fakeDecoder{rate: 44100, chans: 2, blocks: [][][]float32{
				{{0.1}},
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.dec)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Expected error marked ErrDecode, got %v", err)
			}
		})
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("song.ogg")
	if err == nil {
		t.Fatal("Expected error for .ogg, got nil")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode mark, got %v", err)
	}
}

func TestOpenMissingFiles(t *testing.T) {
	for _, name := range []string{"missing.wav", "missing.mp3", "missing.flac"} {
		_, err := Open(filepath.Join(t.TempDir(), name))
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Open(%s): expected ErrDecode, got %v", name, err)
		}
	}
}

func TestDecodeFileWAV(t *testing.T) {
	path := writeTestWAV(t, 44100, [][]int{rampChannel(4410, 0, 3), rampChannel(4410, 0, -3)})

	w, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}

	if w.SampleRate != 44100 {
		t.Errorf("Expected 44100 Hz, got %d", w.SampleRate)
	}
	if w.NumChannels() != 2 {
		t.Errorf("Expected 2 channels, got %d", w.NumChannels())
	}
	if w.Len() != 4410 {
		t.Errorf("Expected 4410 samples, got %d", w.Len())
	}
	if d := w.Duration().Seconds(); d < 0.099 || d > 0.101 {
		t.Errorf("Expected 0.1s duration, got %.4fs", d)
	}
}
