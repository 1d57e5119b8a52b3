package wizard

import (
	"errors"
	"fmt"
)

// AbortedError reports a prompt dismissed without an answer. The run ends
// and no record is returned. It means "operation canceled", not a failure.
type AbortedError struct {
	Field string
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("%s not specified", e.Field)
}

// IsAborted reports whether err is, or wraps, an *AbortedError.
func IsAborted(err error) bool {
	var ae *AbortedError
	return errors.As(err, &ae)
}

// ValidationError reports text rejected by an input step. It never leaves
// the step: the step logs it and prompts again.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Field, e.Value, e.Message)
}

// ChainError reports a chain that cannot be linked.
type ChainError struct {
	Reason string
}

func (e *ChainError) Error() string {
	return "wizard: invalid chain: " + e.Reason
}
