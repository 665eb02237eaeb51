package rag

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a fatal pipeline failure class.
type ErrorCode string

const (
	CodeInputValidation    ErrorCode = "INPUT_VALIDATION"
	CodeDocumentProcessing ErrorCode = "DOCUMENT_PROCESSING_FAILED"
	CodeSessionCreation    ErrorCode = "SESSION_CREATION_FAILED"
)

// Error is a fatal pipeline error. Fatal errors abort the run and surface as a
// structured payload; stage-level degradation never uses this type (it folds
// into the normal result instead).
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewInputValidationError(message string) *Error {
	return &Error{Code: CodeInputValidation, Message: message}
}

func NewDocumentProcessingError(message string, cause error) *Error {
	return &Error{Code: CodeDocumentProcessing, Message: message, Cause: cause}
}

func NewSessionCreationError(message string, cause error) *Error {
	return &Error{Code: CodeSessionCreation, Message: message, Cause: cause}
}

// CodeOf extracts the error code from err, or empty string when err is not a
// pipeline error. Wrapped pipeline errors are unwrapped.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
