package textenc

import "fmt"

// DecodeError reports bytes that could not be turned into text, including
// a declared encoding that is not recognized.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
