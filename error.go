package readthis

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// Codes are grouped by the stage that produces them. Configuration codes come
// from loading the manual file, EINVALIDREF from resolution, the fetch codes
// from retrieval and the extraction codes from content extraction.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	ECONFIGNOTFOUND = "config_not_found"
	ECONFIGPARSE    = "config_parse"
	ECONFIGSCHEMA   = "config_schema"
	EDUPLICATEID    = "duplicate_id"

	EINVALIDREF = "invalid_reference"

	ETIMEOUT         = "timeout"
	ECONNECTION      = "connection_failed"
	EHTTPSTATUS      = "http_status"
	EUNSUPPORTEDTYPE = "unsupported_content_type"

	EEMPTYDOCUMENT = "empty_document"
	ENOCONTENT     = "no_content"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// HTTP status code of the response for EHTTPSTATUS errors.
	Status int
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorStatus returns the HTTP status carried by an EHTTPSTATUS error, or 0.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// HTTPStatusError returns an EHTTPSTATUS error for a response status.
func HTTPStatusError(status int, url string) *Error {
	return &Error{
		Code:    EHTTPSTATUS,
		Message: fmt.Sprintf("HTTP %d for %s", status, url),
		Status:  status,
	}
}

// Stage identifies the step of a read at which an error occurred.
type Stage string

// Stage constants for StageError.
const (
	StageResolve Stage = "resolve"
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
)

// StageError tags an error with the read stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AtStage wraps err with the given stage. Returns nil if err is nil.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// ErrorStage returns the stage an error was tagged with, or "" if untagged.
func ErrorStage(err error) Stage {
	var e *StageError
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
