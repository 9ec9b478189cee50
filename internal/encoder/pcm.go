package encoder

import (
	"encoding/binary"

	"github.com/linuxmatters/stemfire/internal/config"
)

// Clamp limits s to [-1, 1].
func Clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// ToInt16 clamps s and scales it to signed 16-bit. Negative values scale by
// 32768 and the rest by 32767, so both ends of the range are reachable.
// The fractional part is truncated.
func ToInt16(s float32) int16 {
	s = Clamp(s)
	if s < 0 {
		return int16(s * config.PCMNegativeScale)
	}
	return int16(s * config.PCMPositiveScale)
}

// ToPCM16 converts samples into dst, growing it when needed, and returns
// the filled slice.
func ToPCM16(dst []int16, samples []float32) []int16 {
	if cap(dst) < len(samples) {
		dst = make([]int16, len(samples))
	}
	dst = dst[:len(samples)]
	for i, s := range samples {
		dst[i] = ToInt16(s)
	}
	return dst
}

// PCMBytes packs pcm as little-endian bytes into dst, growing it when
// needed.
func PCMBytes(dst []byte, pcm []int16) []byte {
	n := len(pcm) * 2
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(v))
	}
	return dst
}
