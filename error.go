package schemacrawl

import (
	"errors"
	"fmt"
)

// Application error codes. These map to the failure modes of an extraction
// attempt and are used to select the recovery path.
const (
	EINVALID     = "invalid"     // malformed input at a boundary
	ENOTFOUND    = "not_found"   // entity does not exist
	ENOCONTENT   = "no_content"  // crawl succeeded but yielded nothing usable
	EUNAVAILABLE = "unavailable" // delegate transport failure or timeout
	EINTERNAL    = "internal"    // unexpected internal error
)

// Error represents an application error with a machine-readable code.
type Error struct {
	// Code categorizes the error for programmatic handling.
	Code string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("schemacrawl error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the error, if it is an *Error.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if it is an *Error.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
