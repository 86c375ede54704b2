package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the offending payload field, using
// the field's JSON name (eg. "phoneNumber", not "PhoneNumber").
type FieldError struct {
	Field string
	Error string
}

// ValidationError is the error contract between the services and the HTTP
// boundary: the error handler renders Fields as a field-to-message map, or falls
// back to Err's message when no fields are attached (eg. the generic
// "invalid credentials"). Always a 400, never a 500.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable server state; the error handler reacts by
// triggering a graceful stop.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}