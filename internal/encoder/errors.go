package encoder

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/linuxmatters/stemfire/internal/stems"
)

var (
	// ErrEncoderInit marks an encoder that could not be constructed for the
	// requested parameters.
	ErrEncoderInit = errors.New("encoder initialisation failed")

	// ErrEncode marks a failure while encoding frames or flushing.
	ErrEncode = errors.New("stem encoding failed")
)

// StemError names the stem whose encoding failed.
type StemError struct {
	Stem stems.Kind
	Err  error
}

func (e *StemError) Error() string {
	return fmt.Sprintf("encoding %s stem: %v", e.Stem, e.Err)
}

func (e *StemError) Unwrap() error {
	return e.Err
}

// FailedStem extracts the stem from err. The second result is false when
// err carries no stem.
func FailedStem(err error) (stems.Kind, bool) {
	var se *StemError
	if errors.As(err, &se) {
		return se.Stem, true
	}
	return 0, false
}
