package mashup

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquisition is returned when the search/download backend fails.
	// It is fatal to the whole run.
	ErrAcquisition = errors.New("error downloading videos")

	// ErrNoAudio is returned by a prober when a file has no decodable audio
	ErrNoAudio = errors.New("no decodable audio")
)

// ValidationError is a user input error. Message is shown verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Stage names a pipeline stage
type Stage string

const (
	StageAcquire     Stage = "download"
	StageExtract     Stage = "extract"
	StageTrim        Stage = "trim"
	StageConcatenate Stage = "merge"
)

// ItemFailure records an error confined to one file
type ItemFailure struct {
	Stage Stage
	Path  string
	Err   error
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.Path, f.Err)
}

func (f ItemFailure) Unwrap() error {
	return f.Err
}
