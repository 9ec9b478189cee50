package separate

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/linuxmatters/stemfire/internal/config"
)

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// MaskValue returns the vocal-presence weight for one sample pair.
func MaskValue(l, r float32) float64 {
	mid := (float64(l) + float64(r)) / 2
	side := (float64(l) - float64(r)) / 2
	return Sigmoid((math.Abs(mid) - math.Abs(side)) * config.MaskGain)
}

// separateSample applies the mid/side soft mask to one sample pair.
func separateSample(l, r float32) (vocal, instrument, chorus float32) {
	mid := (float64(l) + float64(r)) / 2
	side := (float64(l) - float64(r)) / 2

	mask := Sigmoid((math.Abs(mid) - math.Abs(side)) * config.MaskGain)

	v := mid * mask
	centerResidual := mid - v

	return float32(v), float32(centerResidual + side), float32(side * config.ChorusGain)
}

// Mask fills vocal, instrument and chorus from one chunk's left/right
// samples. All five slices must share one length. Outputs are not clamped.
func Mask(left, right, vocal, instrument, chorus []float32) error {
	n := len(left)
	if len(right) != n || len(vocal) != n || len(instrument) != n || len(chorus) != n {
		return errors.Wrapf(ErrLengthMismatch,
			"left=%d right=%d vocal=%d instrument=%d chorus=%d",
			len(left), len(right), len(vocal), len(instrument), len(chorus))
	}

	for i := 0; i < n; i++ {
		vocal[i], instrument[i], chorus[i] = separateSample(left[i], right[i])
	}
	return nil
}

// MaskChunk allocates outputs and runs Mask.
func MaskChunk(left, right []float32) (vocal, instrument, chorus []float32, err error) {
	vocal = make([]float32, len(left))
	instrument = make([]float32, len(left))
	chorus = make([]float32, len(left))
	if err := Mask(left, right, vocal, instrument, chorus); err != nil {
		return nil, nil, nil, err
	}
	return vocal, instrument, chorus, nil
}
