// Package errors provides standardized error types and helpers for the GenoQL codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrSyntax indicates a tokenization or grammar failure
	ErrSyntax = errors.New("syntax error")
	// ErrOutOfRange indicates a coordinate outside genome bounds
	ErrOutOfRange = errors.New("out of range")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "genome", "contig")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents a semantic validation failure after a
// successful syntactic parse (wrong path root, malformed interval).
// These carry no source position; see SyntaxError for positioned failures.
type ValidationError struct {
	Field   string // What failed validation (e.g., "path", "interval")
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// RangeError represents a coordinate outside the bounds of its contig.
type RangeError struct {
	Contig   string // Contig name
	Position int64  // Offending position
	Length   int32  // Contig length, if known
	Err      error  // Underlying error, if any
}

func (e *RangeError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("position %d out of range for contig %s (length %d)", e.Position, e.Contig, e.Length)
	}
	return fmt.Sprintf("position %d out of range for contig %s", e.Position, e.Contig)
}

func (e *RangeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrOutOfRange
}

// SyntaxError represents a tokenization or grammar failure at a known
// source position. Rendered holds the three-line caret diagnostic.
type SyntaxError struct {
	Message  string // Failure message
	Label    string // Synthetic source label
	Line     int    // 1-based line of the failure
	Col      int    // 1-based column of the failure
	Rendered string // Full three-line diagnostic text
}

func (e *SyntaxError) Error() string {
	if e.Rendered != "" {
		return e.Rendered
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Label, e.Line, e.Col, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRange creates a RangeError
func NewRange(contig string, position int64, length int32) *RangeError {
	return &RangeError{
		Contig:   contig,
		Position: position,
		Length:   length,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
