package notify

import (
	"context"
	"errors"
	"fmt"
)

// Sink delivers an alert to the user.
type Sink interface {
	Alert(ctx context.Context, title, message string) error
}

// SinkError is returned when an alert could not be delivered.
type SinkError struct {
	Backend string
	// Output is the diagnostic output captured from the backend, if any.
	Output string
	Err    error
}

func (e *SinkError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Backend, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsSinkError reports whether err is, or wraps, a *SinkError.
func IsSinkError(err error) bool {
	var se *SinkError
	return errors.As(err, &se)
}

const (
	BackendNotifySend = "notify-send"
	BackendLog        = "log"
)

// New returns the Sink registered under name.
func New(name string) (Sink, error) {
	switch name {
	case BackendNotifySend:
		return NewNotifySend(), nil
	case BackendLog:
		return NewLogSink(nil), nil
	default:
		return nil, fmt.Errorf("unknown alert sink %q (available: %s, %s)", name, BackendNotifySend, BackendLog)
	}
}
