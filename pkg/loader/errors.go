package loader

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRow      = errors.New("malformed row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoData            = errors.New("file has no header")
)

// ParseError locates a failure inside an input file.
type ParseError struct {
	File  string // Input name as given by the caller
	Line  int    // 1-based line number, 0 when not tied to a line
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

func parseError(file string, line int, format string, args ...any) *ParseError {
	return &ParseError{File: file, Line: line, Cause: fmt.Errorf(format, args...)}
}
