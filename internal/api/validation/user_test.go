package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/api/validation"
)

func TestValidateRegisterUserRequest_Valid(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Username: "alice_42",
		Email:    "alice@example.com",
	})
	assert.Empty(t, errs)
}

func TestValidateRegisterUserRequest_MissingFields(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{})
	require.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
}

func TestValidateRegisterUserRequest_UsernameNotMentionable(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Username: "alice smith",
		Email:    "alice@example.com",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Field)
}

func TestValidateRegisterUserRequest_UsernameTooLong(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Username: strings.Repeat("a", 151),
		Email:    "alice@example.com",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Field)
}

func TestValidateRegisterUserRequest_BadEmail(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Username: "alice",
		Email:    "not-an-address",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}
