package encoder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt16(t *testing.T) {
	testCases := []struct {
		in   float32
		want int16
	}{
		{in: 0, want: 0},
		{in: 1, want: 32767},
		{in: -1, want: -32768},
		{in: 1.5, want: 32767},
		{in: -3, want: -32768},
		{in: 0.5, want: 16383},
		{in: -0.5, want: -16384},
		{in: 0.25, want: 8191},
		{in: -0.00001, want: 0},
	}

	for _, tc := range testCases {
		if got := ToInt16(tc.in); got != tc.want {
			t.Errorf("ToInt16(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(2))
	assert.Equal(t, float32(-1), Clamp(-2))
	assert.Equal(t, float32(0.3), Clamp(0.3))
}

func TestToPCM16ReusesBuffer(t *testing.T) {
	buf := make([]int16, 0, 8)
	out := ToPCM16(buf, []float32{1, -1, 0})
	assert.Equal(t, []int16{32767, -32768, 0}, out)
	assert.Equal(t, 8, cap(out))

	out = ToPCM16(out, make([]float32, 16))
	assert.Len(t, out, 16)
}

func TestPCMBytesLittleEndian(t *testing.T) {
	got := PCMBytes(nil, []int16{1, -1, 0x1234})
	assert.Equal(t, []byte{0x01, 0x00, 0xFF, 0xFF, 0x34, 0x12}, got)
}

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "default 44.1k", params: DefaultParams(44100)},
		{name: "default 8k", params: DefaultParams(8000)},
		{name: "stereo", params: Params{SampleRate: 48000, Channels: 2, BitrateKbps: 128}},
		{name: "96k", params: DefaultParams(96000), wantErr: true},
		{name: "zero rate", params: DefaultParams(0), wantErr: true},
		{name: "no channels", params: Params{SampleRate: 44100, Channels: 0, BitrateKbps: 128}, wantErr: true},
		{name: "surround", params: Params{SampleRate: 44100, Channels: 6, BitrateKbps: 128}, wantErr: true},
		{name: "no bitrate", params: Params{SampleRate: 44100, Channels: 1}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrEncoderInit))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(22050)
	assert.Equal(t, 22050, p.SampleRate)
	assert.Equal(t, 1, p.Channels)
	assert.Equal(t, 128, p.BitrateKbps)
}

func TestNewLameEncoderRejectsBadParams(t *testing.T) {
	enc, err := NewLameEncoder(DefaultParams(96000))
	require.Error(t, err)
	assert.Nil(t, enc)
	assert.True(t, errors.Is(err, ErrEncoderInit))

	fe, err := LameFactory(Params{SampleRate: 44100, Channels: 3, BitrateKbps: 128})
	require.Error(t, err)
	assert.Nil(t, fe)
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocals.wav")
	samples := []float32{0, 0.5, -0.5, 1.5, -2}

	require.NoError(t, WriteWAVFile(path, samples, 22050))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 22050, int(dec.SampleRate))
	assert.Equal(t, 1, int(dec.NumChans))
	assert.Equal(t, 16, int(dec.BitDepth))
	assert.Equal(t, []int{0, 16383, -16384, 32767, -32768}, buf.Data)
}

func TestWriteWAVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, WriteWAVFile(path, nil, 44100))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())
}

func TestWriteWAVRejectsBadRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	err := WriteWAVFile(path, []float32{0}, 0)
	assert.True(t, errors.Is(err, ErrEncoderInit))
}
