package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email        string  `validate:"required,email"`
	Password     string  `validate:"min=6"`
	HoursPerWeek float64 `validate:"gt=0"`
}

func TestFormatValidationError(t *testing.T) {
	err := validator.New().Struct(sample{Email: "nope", Password: "123"})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Equal(t,
		"email must be a valid email address; password must be at least 6 characters; hours_per_week must be greater than 0",
		msg)
}

func TestFormatValidationErrorPassthrough(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FormatValidationError(errors.New("unexpected EOF")))
}
