package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, ValidateEmail("a@example.com"))
	assert.NotNil(t, ValidateEmail(""))
	assert.NotNil(t, ValidateEmail("not-an-email"))
	assert.NotNil(t, ValidateEmail("a@"))
}

func TestValidatePassword(t *testing.T) {
	assert.Nil(t, ValidatePassword("123456"))
	assert.NotNil(t, ValidatePassword("12345"))
	assert.NotNil(t, ValidatePassword(""))
}

func TestValidateTodoText(t *testing.T) {
	assert.Nil(t, ValidateTodoText("buy milk"))
	assert.NotNil(t, ValidateTodoText(""))
}

func TestValidateComposes(t *testing.T) {
	require.NoError(t, Validate(nil, nil))

	err := Validate(ValidatePassword("1"), ValidateEmail("bad"))
	require.Error(t, err)

	var verr ValidationErrors
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr, 2)
	assert.Equal(t, "email", verr[0].Field)
	assert.Equal(t, "password", verr[1].Field)
	assert.Contains(t, verr.Fields(), "email")
	assert.Contains(t, err.Error(), "validation failed")
}
