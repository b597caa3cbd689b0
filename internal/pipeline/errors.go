package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSegments means the input held no valid segment.
	ErrNoSegments = errors.New("no input segments")
	// ErrAllFiltered means the filter dropped every segment.
	ErrAllFiltered = errors.New("every segment was filtered out")
)

// FatalError is the only failure that ends a run with no groups.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("pipeline: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
