package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/api/validation"
)

func TestValidateCreateTeamRequest_Valid(t *testing.T) {
	errs := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:        "Platform",
		Description: "Platform engineering",
	})
	assert.Empty(t, errs)
}

func TestValidateCreateTeamRequest_NameRequired(t *testing.T) {
	errs := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{Name: "  "})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidateAddMemberRequest_Valid(t *testing.T) {
	errs := validation.ValidateAddMemberRequest(validation.AddMemberRequest{
		Username: "bob",
		Role:     "MEMBER",
	})
	assert.Empty(t, errs)
}

func TestValidateAddMemberRequest_MissingFields(t *testing.T) {
	errs := validation.ValidateAddMemberRequest(validation.AddMemberRequest{})
	require.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "role", errs[1].Field)
}

func TestValidateAddMemberRequest_UnknownRole(t *testing.T) {
	errs := validation.ValidateAddMemberRequest(validation.AddMemberRequest{
		Username: "bob",
		Role:     "ADMIN",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)
}

func TestValidateChangeRoleRequest_Valid(t *testing.T) {
	assert.Empty(t, validation.ValidateChangeRoleRequest(validation.ChangeRoleRequest{Role: "OWNER"}))
}

func TestValidateChangeRoleRequest_UnknownRole(t *testing.T) {
	errs := validation.ValidateChangeRoleRequest(validation.ChangeRoleRequest{Role: "owner"})
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)
}
