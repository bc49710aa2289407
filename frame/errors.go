package frame

import (
	"errors"
	"fmt"
)

// PlatformError reports a failed call into the platform. Code carries the
// platform's own error code when it has one and is 0 otherwise.
type PlatformError struct {
	Op   string
	Code int
	Err  error
}

func (e *PlatformError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("frame: %s failed (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("frame: %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Coder is implemented by platform errors that expose a native error code.
type Coder interface {
	Code() int
}

func platformError(op string, err error) *PlatformError {
	pe := &PlatformError{Op: op, Err: err}
	var c Coder
	if errors.As(err, &c) {
		pe.Code = c.Code()
	}
	return pe
}
