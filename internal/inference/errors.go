package inference

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an inference call failed
type ErrorKind string

const (
	// KindTransport covers network failures and timeouts reaching the provider
	KindTransport ErrorKind = "transport"

	// KindProvider covers non-success statuses and malformed payloads
	KindProvider ErrorKind = "provider"

	// KindConfig covers missing credentials and unknown or broken templates
	KindConfig ErrorKind = "config"
)

var (
	// ErrMissingCredential is wrapped when no API key is configured
	ErrMissingCredential = errors.New("inference credential not configured")

	// ErrUnknownTemplate is wrapped when the template id is not registered
	ErrUnknownTemplate = errors.New("unknown instruction template")

	// ErrEmptyCompletion is wrapped when the provider answered without any choice
	ErrEmptyCompletion = errors.New("provider returned no completion")
)

// Error is the single failure type returned by a Client
type Error struct {
	Kind     ErrorKind
	Template TemplateID
	Status   int
	Cause    string
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%s, status %d): %s", e.Kind, e.Template, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Template, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts the inference failure from err, wrapping foreign errors as transport failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	return &Error{Kind: KindTransport, Cause: err.Error(), Err: err}
}
