package custom_error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports input rejected before any mutation.
type ValidationError struct {
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
}

func NewValidationError(property, message string) *ValidationError {
	return &ValidationError{Property: property, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Property == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Property, e.Message)
}

// ParseError reports a file that could not be read as a whole. It aborts an
// upload before anything is written.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("file %s: %s", e.File, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// PartialFailureError is returned when a sequence of independent writes
// stopped midway. Completed steps are not rolled back.
type PartialFailureError struct {
	Operation string
	Month     string
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for month %s failed at %q", e.Operation, e.Month, e.Failed)
	if len(e.Completed) > 0 {
		fmt.Fprintf(&b, " after completing [%s]", strings.Join(e.Completed, "; "))
	}
	b.WriteString("; data needs manual correction")
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error returned by the services to a response code.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		parseErr      *ParseError
		notFoundErr   *NotFoundError
		uniqueErr     *UniqueViolationError
		foreignKeyErr *ForeignKeyViolationError
		rangeErr      *NumericRangeError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &uniqueErr):
		return http.StatusConflict
	case errors.As(err, &foreignKeyErr), errors.As(err, &rangeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
