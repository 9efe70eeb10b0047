package extract

import (
	"errors"
	"fmt"
)

// ErrUnrecoverableResponse means the AI output could not be repaired into
// usable JSON. Retrying with a smaller batch usually helps.
var ErrUnrecoverableResponse = errors.New("AI response could not be parsed; try again with a smaller batch")

// ErrInvalidDocument means an uploaded file could not be read
var ErrInvalidDocument = errors.New("document could not be read")

// ExternalServiceError wraps a failed call to the AI service, after any
// retries were used up
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("AI service %s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
