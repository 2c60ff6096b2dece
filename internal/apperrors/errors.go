// In file: internal/apperrors/errors.go

// Package apperrors defines the error taxonomy shared by the chat pipeline, the LLM
// gateway and the CRUD surfaces. Every error carries a stable code so callers can branch
// with errors.Is even when the user-facing behaviour collapses them (the chat fallback).
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable error classification.
type ErrorCode string

const (
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	CodeGateway       ErrorCode = "GATEWAY_ERROR"
	CodeParse         ErrorCode = "PARSE_ERROR"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeStorage       ErrorCode = "STORAGE_ERROR"
	CodeUnknown       ErrorCode = "UNKNOWN_ERROR"
)

// Error is a classified application error.
type Error struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrConfiguration = &Error{Code: CodeConfiguration}
	ErrGateway       = &Error{Code: CodeGateway}
	ErrParse         = &Error{Code: CodeParse}
	ErrValidation    = &Error{Code: CodeValidation}
	ErrNotFound      = &Error{Code: CodeNotFound}
	ErrStorage       = &Error{Code: CodeStorage}
)

// New builds a classified error wrapping err (which may be nil).
func New(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetail attaches a diagnostic key/value and returns the same error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func Configuration(message string, err error) *Error { return New(CodeConfiguration, message, err) }
func Gateway(message string, err error) *Error       { return New(CodeGateway, message, err) }
func Parse(message string, err error) *Error         { return New(CodeParse, message, err) }
func Validation(message string, err error) *Error    { return New(CodeValidation, message, err) }
func NotFound(message string) *Error                 { return New(CodeNotFound, message, nil) }
func Storage(message string, err error) *Error       { return New(CodeStorage, message, err) }

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
