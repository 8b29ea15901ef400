package parley

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrUnknownThread indicates an operation named a thread id that is not
	// part of the session.
	ErrUnknownThread = errors.New("unknown thread")

	// ErrEmptySession indicates a session with no threads.
	ErrEmptySession = errors.New("session has no threads")

	// ErrInvalidSession indicates a session with duplicate ids or an empty thread.
	ErrInvalidSession = errors.New("invalid session")

	// ErrNotFound indicates a Store has no value for the key.
	ErrNotFound = errors.New("not found")
)

// Completion failure kinds. Match them with errors.Is on a CompletionError.
var (
	// ErrTransport indicates no response was received.
	ErrTransport = errors.New("transport failure")

	// ErrService indicates the service answered with an error payload.
	ErrService = errors.New("service failure")

	// ErrMalformedResponse indicates a response without the expected
	// candidate text.
	ErrMalformedResponse = errors.New("malformed response")
)

// CompletionError is the single error type returned by a Completer.
type CompletionError struct {
	Kind    error  // ErrTransport, ErrService, or ErrMalformedResponse
	Message string // human-readable detail, may be empty
	Err     error  // underlying cause, may be nil
}

func (e *CompletionError) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *CompletionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
