// Package errors defines AppError, the structured error carried across every
// layer of the catalogue. Handlers map its code to an HTTP status, the logging
// middleware extracts its stack, and metrics use the code as a label, so one
// type serves API responses, logs, and monitoring alike.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth caps the number of frames captured per error.
const stackDepth = 32

// captureStack formats the call stack starting two frames above its caller,
// skipping captureStack itself and the factory that invoked it. Frames from
// the Go runtime are filtered out to keep traces readable.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the catalogue's canonical error. It satisfies the standard
// error interface and participates in errors.Is / errors.As / errors.Unwrap
// chains.
//
//	return errors.New(errors.CodeDocumentNotFound, "document 42 not found")
//	return errors.Wrap(repoErr, errors.CodeDBQueryError, "load concept")
//	return errors.NotFound("worklog not found").WithDetail("id=" + id)
type AppError struct {
	// Code classifies the failure. Codes are stable identifiers shared
	// between server responses and client-side checks.
	Code ErrorCode

	// Message is the human-readable description returned to API callers.
	Message string

	// Detail carries extra context for debugging (entity IDs, parameters)
	// that should not be confused with the primary message.
	Detail string

	// Cause is the wrapped lower-level error, if any.
	Cause error

	// Stack holds the formatted call stack captured at construction. It is
	// deliberately excluded from Error() output; the logging middleware
	// reads it straight from the field.
	Stack string
}

// Error renders "[<code>] <message>: <detail>", dropping the detail segment
// when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of the error with Detail set. Safe on a nil
// receiver.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of the error with Cause set, for attaching a
// lower-level error to an AppError built elsewhere. Safe on a nil receiver.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// newWithSkip backs all factories; skip positions the stack capture at the
// factory's caller regardless of how many layers of factory sit in between.
func newWithSkip(code ErrorCode, message string, skip int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(skip + 1),
	}
}

// New builds an AppError with the given code and message and captures the
// call stack. Use it for errors originating in the current layer; use Wrap
// when a lower layer already produced an error.
func New(code ErrorCode, message string) *AppError {
	return newWithSkip(code, message, 1)
}

// Wrap builds an AppError around an existing error. A nil err yields nil, so
// it composes inline:
//
//	return errors.Wrap(repo.GetByID(ctx, id), errors.CodeDBQueryError, "query failed")
//
// When err already carries an AppError and the caller passes CodeUnknown, the
// inner code is preserved so the original classification survives the hop
// between layers.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any AppError in err's chain carries the given code.
//
//	if errors.IsCode(err, errors.ErrCodeExtractionLeaseHeld) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether err's chain carries any of the not-found codes:
// the generic CodeNotFound plus the document, concept, obligation, worklog,
// and CAS variants.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case CodeNotFound, CodeDocumentNotFound, CodeConceptNotFound,
				CodeObligationNotFound, CodeWorklogNotFound, ErrCodeCASNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the first AppError in err's chain, CodeUnknown
// for foreign errors, and CodeOK for nil. Middleware uses it to pick an HTTP
// status and a metric label without knowing individual domain errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// NotFound builds a generic CodeNotFound error. Repositories that know their
// entity should prefer the typed variants such as CodeDocumentNotFound.
func NotFound(message string) *AppError { return newWithSkip(CodeNotFound, message, 1) }

// InvalidParam builds a CodeInvalidParam error for rejected caller input.
func InvalidParam(message string) *AppError { return newWithSkip(CodeInvalidParam, message, 1) }

// InvalidState builds a CodeConflict error for domain state violations.
func InvalidState(message string) *AppError { return newWithSkip(CodeConflict, message, 1) }

// Unauthorized builds a CodeUnauthorized error.
func Unauthorized(message string) *AppError { return newWithSkip(CodeUnauthorized, message, 1) }

// Forbidden builds a CodeForbidden error.
func Forbidden(message string) *AppError { return newWithSkip(CodeForbidden, message, 1) }

// Internal builds a CodeInternal error for unexpected server-side failures.
// Log the underlying cause alongside it; Internal alone says nothing about
// what went wrong.
func Internal(message string) *AppError { return newWithSkip(CodeInternal, message, 1) }

// Conflict builds a CodeConflict error.
func Conflict(message string) *AppError { return newWithSkip(CodeConflict, message, 1) }

// RateLimit builds a CodeRateLimit error.
func RateLimit(message string) *AppError { return newWithSkip(CodeRateLimit, message, 1) }

//Personal.AI order the ending
