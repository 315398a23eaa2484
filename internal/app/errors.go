package app

import (
	"errors"
	"fmt"
)

// Pipeline stage names reported in StageError.
const (
	StageFetch    = "fetch"
	StageDecode   = "decode"
	StageExtract  = "extract"
	StageTokenize = "tokenize"
	StageRender   = "render"
)

// ErrEmptyAddress is returned before any I/O when the address is blank.
var ErrEmptyAddress = errors.New("address is required")

// StageError wraps the failure of one pipeline stage. The typed cause
// (fetch.NetworkError, textenc.DecodeError, extract.ParseError,
// tokenize.Error) stays reachable through errors.As.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage name carried by err, or "" when err did not
// come from a pipeline stage.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
