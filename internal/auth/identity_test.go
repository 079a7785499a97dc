package auth

import (
	"testing"

	"branchdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_HasAny(t *testing.T) {
	clerk := NewIdentity(&models.User{ID: 7, BranchID: 2, Role: "clerk", Permissions: []string{PermItemsRead, PermOrdersRead}})

	assert.True(t, clerk.HasAny(PermItemsRead))
	assert.True(t, clerk.HasAny(PermItemsWrite, PermOrdersRead))
	assert.False(t, clerk.HasAny(PermItemsWrite))
	assert.False(t, clerk.HasAny())
	assert.False(t, clerk.IsSuperAdmin())
}

func TestIdentity_UniversalCapability(t *testing.T) {
	admin := NewIdentity(&models.User{ID: 1, BranchID: 1, Role: "super_admin", Permissions: []string{PermAll}})

	assert.True(t, admin.IsSuperAdmin())
	assert.True(t, admin.HasAny(PermUsersManage))
	assert.True(t, admin.CanAccessBranch(99))
}

func TestIdentity_CanAccessBranch(t *testing.T) {
	id := NewIdentity(&models.User{ID: 3, BranchID: 4})
	assert.True(t, id.CanAccessBranch(4))
	assert.False(t, id.CanAccessBranch(5))
}

func TestIsKnownPermission(t *testing.T) {
	assert.True(t, IsKnownPermission("payments:manage"))
	assert.False(t, IsKnownPermission("payments:delete"))
}
