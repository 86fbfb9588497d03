package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ErrCodeValidationRequired  = "validation.required.error"
	ErrCodeValidationMaxLength = "validation.max-length.error"
	ErrCodeValidationInvalid   = "validation.invalid.error"
	ErrCodeTimestampFuture     = "validation.timestamp-future.error"
	ErrCodeInvalidInteger      = "validation.invalid-integer.error"
	ErrCodeInvalidRange        = "validation.invalid-range.error"
)

var ErrNotFound = errors.New("not found")

type ErrorDetail struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationError struct {
	Errors []ErrorDetail `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation error"
	}

	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) Add(detail ErrorDetail) {
	e.Errors = append(e.Errors, detail)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// OrNil returns e when it carries at least one detail.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: make([]ErrorDetail, 0),
	}
}

// ConflictError reports a create that collided with an existing row.
type ConflictError struct {
	Detail string `json:"detail"`
	ID     int64  `json:"id,omitempty"`
}

func (e *ConflictError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s (id %d)", e.Detail, e.ID)
	}
	return e.Detail
}

// FromValidator converts go-playground validation failures into a ValidationError.
// Any other error is returned unchanged.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	validationErr := NewValidationError()
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			validationErr.Add(ErrorDetail{
				Field:   field,
				Code:    ErrCodeValidationRequired,
				Message: fmt.Sprintf("%s is required", field),
			})
		case "max":
			validationErr.Add(ErrorDetail{
				Field:   field,
				Code:    ErrCodeValidationMaxLength,
				Message: fmt.Sprintf("%s must be at most %s characters", field, fe.Param()),
			})
		default:
			validationErr.Add(ErrorDetail{
				Field:   field,
				Code:    ErrCodeValidationInvalid,
				Message: fmt.Sprintf("%s failed %s validation", field, fe.Tag()),
			})
		}
	}
	return validationErr
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
