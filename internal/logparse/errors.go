package logparse

import "fmt"

// RejectedError reports a file that contains no FLAME GPU marker line. The
// file is not an output log of the expected kind; rejection is per-file and
// non-fatal for a batch.
type RejectedError struct {
	Path string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s is not FLAME GPU console output", e.Path)
}

// MalformedNumberError reports a line whose measurement could not be parsed
// as a number. It indicates corrupted input and abandons the file.
type MalformedNumberError struct {
	Path string
	Line string
	Err  error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number in %s: %q: %v", e.Path, e.Line, e.Err)
}

func (e *MalformedNumberError) Unwrap() error {
	return e.Err
}
