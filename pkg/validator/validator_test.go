package validator

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	EmployeeID string  `json:"employee_id" validate:"required,max=64"`
	FullName   string  `json:"full_name" validate:"required"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

func TestValidateStructSuccess(t *testing.T) {
	email := "driver@example.com"
	require.NoError(t, ValidateStruct(testPayload{EmployeeID: "AJ-EMP-001", FullName: "Jane Roe", Email: &email}))
}

func TestValidateStructFailures(t *testing.T) {
	email := "invalid"
	err := ValidateStruct(testPayload{Email: &email})
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := vErrs.Fields()
	require.Equal(t, "employee id is required", fields["employee_id"])
	require.Equal(t, "full name is required", fields["full_name"])
	require.Equal(t, "email must be a valid email address", fields["email"])
}

func TestRegisterValidation(t *testing.T) {
	require.NoError(t, RegisterValidation("upper_only", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == strings.ToUpper(value)
	}))

	type payload struct {
		Code string `json:"code" validate:"upper_only"`
	}

	require.NoError(t, ValidateStruct(payload{Code: "ABC"}))
	err := ValidateStruct(payload{Code: "abc"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "code failed on upper_only")
}

func TestClearableEmail(t *testing.T) {
	type patch struct {
		Email *string `json:"email" validate:"omitempty,clearable_email"`
	}

	empty := ""
	valid := "ops@example.com"
	invalid := "nope"

	require.NoError(t, ValidateStruct(patch{}))
	require.NoError(t, ValidateStruct(patch{Email: &empty}))
	require.NoError(t, ValidateStruct(patch{Email: &valid}))

	err := ValidateStruct(patch{Email: &invalid})
	require.Error(t, err)
	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Equal(t, "email must be a valid email address", vErrs.Fields()["email"])
}
