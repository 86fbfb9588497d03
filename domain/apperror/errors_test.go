package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleCommand struct {
	Name  string `json:"name" validate:"required,max=5"`
	Label string `json:"label" validate:"omitempty,max=3"`
}

func TestValidationError_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		err := NewValidationError()
		assert.Equal(t, "validation error", err.Error())
		assert.False(t, err.HasErrors())
		assert.NoError(t, err.OrNil())
	})

	t.Run("joins details", func(t *testing.T) {
		err := NewValidationError()
		err.Add(ErrorDetail{Field: "days", Code: ErrCodeInvalidInteger, Message: "days must be an integer"})
		err.Add(ErrorDetail{Field: "actions", Code: ErrCodeInvalidInteger, Message: "bad id"})

		assert.Equal(t, "days: days must be an integer; actions: bad id", err.Error())
		assert.Error(t, err.OrNil())
	})
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(sampleCommand{Name: "abc"}))
	})

	t.Run("required uses json name", func(t *testing.T) {
		err := ValidateStruct(sampleCommand{})
		require.Error(t, err)

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Len(t, validationErr.Errors, 1)
		assert.Equal(t, "name", validationErr.Errors[0].Field)
		assert.Equal(t, ErrCodeValidationRequired, validationErr.Errors[0].Code)
	})

	t.Run("max length", func(t *testing.T) {
		err := ValidateStruct(sampleCommand{Name: "toolongname", Label: "abcd"})

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Len(t, validationErr.Errors, 2)
		assert.Equal(t, ErrCodeValidationMaxLength, validationErr.Errors[0].Code)
		assert.Equal(t, "label", validationErr.Errors[1].Field)
	})
}

func TestFromValidator_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, FromValidator(plain))
	assert.NoError(t, FromValidator(nil))
}

func TestConflictError(t *testing.T) {
	assert.Equal(t, "action-exists (id 4)", (&ConflictError{Detail: "action-exists", ID: 4}).Error())
	assert.Equal(t, "duplicate", (&ConflictError{Detail: "duplicate"}).Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("action 3: %w", ErrNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}
