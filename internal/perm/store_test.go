package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portalhq/portal/internal/perm"
)

func TestForRole_Owner(t *testing.T) {
	perms := perm.ForRole(perm.RoleOwner)
	assert.ElementsMatch(t, []string{
		perm.PermView, perm.PermChange, perm.PermDelete, perm.PermManageMembers,
	}, perms)
}

func TestForRole_Member(t *testing.T) {
	perms := perm.ForRole(perm.RoleMember)
	assert.Equal(t, []string{perm.PermView}, perms)
}

func TestForRole_Unknown(t *testing.T) {
	assert.Nil(t, perm.ForRole("ADMIN"))
}

func TestOwnerOnly_DisjointFromMemberSet(t *testing.T) {
	ownerOnly := perm.OwnerOnly()

	assert.NotContains(t, ownerOnly, perm.PermView, "view is conferred by membership itself, not ownership")

	// Role change toggles exactly the owner surplus.
	combined := append([]string{perm.PermView}, ownerOnly...)
	assert.ElementsMatch(t, perm.ForRole(perm.RoleOwner), combined)
}
