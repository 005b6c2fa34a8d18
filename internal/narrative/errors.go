package narrative

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrTextGeneration    = errors.New("text generation failed")
	ErrImageGeneration   = errors.New("image generation failed")
	ErrMissingCredential = errors.New("missing API credential")
	ErrInvalidConfig     = errors.New("invalid LLM configuration")
)

// Op names the external call that failed.
type Op string

const (
	OpText  Op = "text"
	OpImage Op = "image"
)

// Cause classifies why a generation call failed.
type Cause string

const (
	CauseTimeout       Cause = "timeout"
	CauseCanceled      Cause = "canceled"
	CauseAuth          Cause = "auth"
	CauseRateLimit     Cause = "rate_limit"
	CauseTransport     Cause = "transport"
	CauseEmptyResponse Cause = "empty_response"
)

// GenerationError is the normalized failure of a text or image call.
// errors.Is matches ErrTextGeneration or ErrImageGeneration according to Op.
type GenerationError struct {
	Op    Op
	Cause Cause
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (%s)", e.kind(), e.Cause)
	}
	return fmt.Sprintf("%v (%s): %v", e.kind(), e.Cause, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind()}
	}
	return []error{e.kind(), e.Err}
}

func (e *GenerationError) kind() error {
	if e.Op == OpImage {
		return ErrImageGeneration
	}
	return ErrTextGeneration
}

// NewTextError wraps err as a text-generation failure.
func NewTextError(cause Cause, err error) *GenerationError {
	return &GenerationError{Op: OpText, Cause: cause, Err: err}
}

// NewImageError wraps err as an image-generation failure.
func NewImageError(cause Cause, err error) *GenerationError {
	return &GenerationError{Op: OpImage, Cause: cause, Err: err}
}

// CauseOf returns the classified cause of err, or "" if err is not a GenerationError.
func CauseOf(err error) Cause {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Cause
	}
	return ""
}

// contextCause maps context termination onto a cause.
func contextCause(err error) (Cause, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CauseTimeout, true
	case errors.Is(err, context.Canceled):
		return CauseCanceled, true
	}
	return "", false
}
