package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates the file extension has no registered reader.
var ErrUnsupported = errors.New("unsupported dataset format")

// NotFoundError indicates the dataset path does not resolve to a file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SchemaError indicates an expected column is absent from the table.
type SchemaError struct {
	Column    string
	Available []string
}

func (e *SchemaError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// LoadError covers every other read or parse failure.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load dataset: %v", e.Err)
	}
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadFailure reports whether err belongs to the loader's error taxonomy.
func IsLoadFailure(err error) bool {
	var nf *NotFoundError
	var se *SchemaError
	var le *LoadError
	return errors.As(err, &nf) || errors.As(err, &se) || errors.As(err, &le)
}
