package browser

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed   = errors.New("browser session closed")
	ErrElementNotFound = errors.New("element not found")
)

// ClientError wraps a failure reported by the automation client.
type ClientError struct {
	Op  string
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("browser %s: %v", e.Op, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *ClientError for op, or nil when err is nil.
// Errors that already are a *ClientError are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return err
	}
	return &ClientError{Op: op, Err: err}
}

// LaunchError is returned by WithSession when no session could be started.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch browser: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CloseError is returned by WithSession when releasing the session failed.
type CloseError struct {
	Err error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close browser: %v", e.Err)
}

func (e *CloseError) Unwrap() error {
	return e.Err
}
