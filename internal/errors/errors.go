// Package errors defines the domain error taxonomy shared by the services
// and the HTTP layer. A DomainError's Message is safe to show to callers; the
// wrapped Err carries internal detail and is only ever logged.
package errors

import "fmt"

// DomainError is a coded, user-facing error with an optional internal cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches any DomainError carrying the same code, so errors.Is works
// against the package-level sentinels regardless of message or cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e != nil && t.Code == e.Code
}

// Wrap returns a copy of e that carries cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: cause}
}

// Withf returns a copy of e with a formatted message.
func (e *DomainError) Withf(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Cause describes the innermost reason behind an error for logging, looking
// through nested DomainErrors. It falls back to the error text itself.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := err.(*DomainError); ok && de.Err != nil {
		return Cause(de.Err)
	}
	return err.Error()
}
