// Package apperrors defines the error kinds the HTTP layer maps to status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a NotFoundError for resource. id may be empty.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// BadInputError is a client mistake: a missing field, a disallowed file, an
// unknown reference.
type BadInputError struct {
	Field   string
	Message string
}

func (e *BadInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewBadInputError creates a BadInputError. field may be empty.
func NewBadInputError(field, message string) *BadInputError {
	return &BadInputError{Field: field, Message: message}
}

// UploadFailedError wraps a failure reported by the remote image store. The
// remote message is forwarded to the client as-is.
type UploadFailedError struct {
	Err error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("failed to upload image: %v", e.Err)
}

func (e *UploadFailedError) Unwrap() error { return e.Err }

// NewUploadFailedError wraps err as an UploadFailedError.
func NewUploadFailedError(err error) *UploadFailedError {
	return &UploadFailedError{Err: err}
}

// ConflictError reports a write that clashes with existing data.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Reason)
	}
	return fmt.Sprintf("%s conflict", e.Resource)
}

// NewConflictError creates a ConflictError for resource.
func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsBadInput reports whether err wraps a BadInputError.
func IsBadInput(err error) bool {
	var e *BadInputError
	return errors.As(err, &e)
}

// IsUploadFailed reports whether err wraps an UploadFailedError.
func IsUploadFailed(err error) bool {
	var e *UploadFailedError
	return errors.As(err, &e)
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
