package errors

import stderrors "errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	Message string

	// Code (required) is the stable error code callers branch on.
	// E.g. "insufficient_balance".
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occured on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsWithObject creates a new ErrorDetails struct with an associated object.
func NewErrorDetailsWithObject(message, code, field string, object interface{}) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
		Object:  object,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// Is matches any ErrorDetails carrying the same code, so package level
// sentinels can be compared with errors.Is.
func (e *ErrorDetails) Is(target error) bool {
	t, ok := target.(*ErrorDetails)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first ErrorDetails in the chain, or "".
func CodeOf(err error) string {
	var details *ErrorDetails
	if !stderrors.As(err, &details) {
		return ""
	}

	return details.Code
}

// WithMessage returns a copy of e carrying message. The code is kept, so the
// copy still matches e with errors.Is.
func (e *ErrorDetails) WithMessage(message string) *ErrorDetails {
	c := *e
	c.Message = message
	return &c
}
