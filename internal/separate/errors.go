package separate

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Stage names the pipeline step a failure came from.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageAllocate  Stage = "allocate"
	StageDecompose Stage = "decompose"
	StageMask      Stage = "mask"
	StageAssemble  Stage = "assemble"
	StageSchedule  Stage = "schedule"
)

var (
	// ErrInvalidInput marks waveforms the pipeline refuses to process.
	ErrInvalidInput = errors.New("invalid input waveform")

	// ErrAllocation marks a failed stem buffer allocation.
	ErrAllocation = errors.New("stem buffer allocation failed")

	// ErrCanceled marks a run stopped at a chunk boundary by its context.
	ErrCanceled = errors.New("separation canceled")

	// ErrOutOfRange marks a chunk that falls outside the waveform.
	ErrOutOfRange = errors.New("chunk out of range")

	// ErrOverlap marks a chunk that would write an index a second time.
	ErrOverlap = errors.New("chunk overlaps written range")

	// ErrIncomplete marks a freeze attempted before every index was written.
	ErrIncomplete = errors.New("stem buffers incomplete")

	// ErrFrozen marks a write after the buffers were handed off.
	ErrFrozen = errors.New("assembler already frozen")

	// ErrLengthMismatch marks chunk arrays of unequal length.
	ErrLengthMismatch = errors.New("chunk length mismatch")
)

// StageError reports which stage failed and, when it applies, on which
// chunk. Chunk is -1 for failures outside the chunk loop.
type StageError struct {
	Stage Stage
	Chunk int
	Err   error
}

func (e *StageError) Error() string {
	if e.Chunk >= 0 {
		return fmt.Sprintf("%s stage failed at chunk %d: %v", e.Stage, e.Chunk, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, chunk int, err error) error {
	return &StageError{Stage: stage, Chunk: chunk, Err: err}
}

// FailedStage extracts the stage from err, or "" if err carries none.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
