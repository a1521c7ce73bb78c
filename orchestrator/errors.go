package orchestrator

import (
	"context"

	"github.com/pkg/errors"
)

// Kind classifies a session failure for the HTTP layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingInput
	KindTranscription
	KindPromptGeneration
	KindTimeout
)

// Error carries the failure kind alongside the provider error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// classify wraps err with kind, promoting provider deadline overruns
// to KindTimeout.
func classify(kind Kind, err error, msg string) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// KindOf extracts the kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
