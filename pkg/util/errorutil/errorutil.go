package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes for the complaint lifecycle taxonomy.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeNotAuthorized          = "NOT_AUTHORIZED"
	CodeInvalidAssignee        = "INVALID_ASSIGNEE"
	CodeFeedbackNotAllowed     = "FEEDBACK_NOT_ALLOWED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeConflict               = "CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInternal               = "INTERNAL_ERROR"
)

// DomainError standardizes application errors. State-machine rejections are
// returned synchronously as typed failures, never as opaque exceptions.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewInvalidTransition rejects a (from,to) edge outside the allowed table.
func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition %s -> %s is not allowed", from, to),
		http.StatusUnprocessableEntity,
		map[string]any{"from": from, "to": to})
}

// NewNotAuthorized rejects an actor lacking rights for an otherwise legal edge.
func NewNotAuthorized(message string) error {
	return NewDomainError(CodeNotAuthorized, message, http.StatusForbidden, nil)
}

// NewInvalidAssignee rejects an assignment target that is not a Staff user.
func NewInvalidAssignee(staffID string) error {
	return NewDomainError(CodeInvalidAssignee,
		"assignee must reference an existing staff member",
		http.StatusUnprocessableEntity,
		map[string]any{"staff_id": staffID})
}

// NewFeedbackNotAllowed rejects feedback in the wrong state or a repeat submission.
func NewFeedbackNotAllowed(message string) error {
	return NewDomainError(CodeFeedbackNotAllowed, message, http.StatusUnprocessableEntity, nil)
}

// NewConcurrentModification signals a stale version on write; callers may retry.
func NewConcurrentModification(resource string) error {
	return NewDomainError(CodeConcurrentModification,
		fmt.Sprintf("%s was modified concurrently, retry with fresh state", resource),
		http.StatusConflict, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError is shorthand for ToDomainError used at service boundaries.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
