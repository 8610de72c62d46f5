package validator

import (
	"errors"
	"strings"
	"testing"

	"user-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,user-status"`
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"abc12345", true},
		{"Admin@123", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
		{strings.Repeat("a1", 50), true},
		{strings.Repeat("a1", 50) + "x", false},
		{"пароль123", true},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPassword(tt.password))
		})
	}
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(signupInput{FullName: "", Email: "not-an-email", Password: "weak"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Errors, "fullName")
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Equal(t, "is required", vErr.Errors["fullName"])
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(signupInput{FullName: "Jane Doe", Email: "jane@example.com", Password: "secret123"}))
}

func TestValidate_UserStatus(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(statusInput{Status: "inactive"}))

	err := v.Validate(statusInput{Status: "banned"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: must be one of: active, inactive")
}

func TestVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("email", "a@b.io", "required,email"))

	err := v.Var("email", "nope", "required,email")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "email: must be a valid email address", err.Error())
}
