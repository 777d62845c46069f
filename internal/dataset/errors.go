package dataset

import (
	"fmt"
	"strings"
)

// FileAccessError indicates the source file could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read dataset %s: %v", e.Path, e.Err)
}

// Unwrap allows errors.Is and errors.As to reach the underlying cause
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// DataFormatError indicates the source file is readable but does not carry
// the required columns. No partial table is produced alongside it.
type DataFormatError struct {
	Missing []string
}

// Error implements the error interface
func (e *DataFormatError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}
