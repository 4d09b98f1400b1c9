package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ReasonCode is the machine-readable cause of a field validation failure
type ReasonCode string

const (
	ReasonMissing    ReasonCode = "MISSING"
	ReasonNotANumber ReasonCode = "NOT_A_NUMBER"
	ReasonOutOfRange ReasonCode = "OUT_OF_RANGE"
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string     `json:"field"`
	Reason  ReasonCode `json:"reason"`
	Message string     `json:"message"`
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", f.Field, f.Message, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure
func (e *ValidationError) Add(field string, reason ReasonCode, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason, Message: message})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Field returns the failure recorded for name, if any
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// ErrorCode enumerates the domain failures of the engine
type ErrorCode string

const (
	CodeTermTooLarge  ErrorCode = "TERM_TOO_LARGE"
	CodeInvalidTerm   ErrorCode = "INVALID_TERM"
	CodeInvalidTarget ErrorCode = "INVALID_TARGET"
	CodeUnaffordable  ErrorCode = "TARGET_UNAFFORDABLE"
)

// Sentinels for errors.Is checks against a DomainError's code
var (
	ErrTermTooLarge  = &DomainError{Code: CodeTermTooLarge}
	ErrInvalidTerm   = &DomainError{Code: CodeInvalidTerm}
	ErrInvalidTarget = &DomainError{Code: CodeInvalidTarget}
	ErrUnaffordable  = &DomainError{Code: CodeUnaffordable}
)

// DomainError is returned when a computation is not meaningful for its input
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Is matches any DomainError carrying the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewTermTooLargeError builds the error for a term above the configured bound
func NewTermTooLargeError(term, limit int) *DomainError {
	return &DomainError{
		Code:    CodeTermTooLarge,
		Message: fmt.Sprintf("loan term of %d months exceeds the maximum of %d months", term, limit),
	}
}
