package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransient marks failures worth retrying: timeouts, refused
	// connections, 5xx/429 answers, undecodable bodies.
	ErrTransient = errors.New("transient inference error")
	// ErrInvalidOutput marks a well-formed answer that fails validation.
	// It is never retried.
	ErrInvalidOutput = errors.New("invalid inference output")
)

// StatusError is a non-200 answer from an inference endpoint.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d %s: %s", e.Provider, e.Code, http.StatusText(e.Code), e.Body)
}

// Unwrap makes 5xx and 429 answers match ErrTransient.
func (e *StatusError) Unwrap() error {
	if e.Code >= 500 || e.Code == http.StatusTooManyRequests {
		return ErrTransient
	}
	return nil
}

// Invalid wraps a validation failure.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOutput, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether another attempt may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidOutput) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	// transport failures surface as *url.Error / *net.OpError
	return true
}
