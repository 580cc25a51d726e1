package ai

import (
	"errors"
	"fmt"
)

// ErrNotConfigured reports that no AI client is available because the API key
// was absent at startup.
var ErrNotConfigured = errors.New("ai: client is not configured")

// GatewayError wraps a failure that occurred while talking to the AI
// provider, whether transport, HTTP status, or an unusable response payload.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ai: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func gatewayErr(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

func gatewayErrf(op, format string, args ...any) error {
	return &GatewayError{Op: op, Err: fmt.Errorf(format, args...)}
}
