package services

import (
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/models"
)

func clerkIn(branchID int, perms ...string) auth.Identity {
	return auth.NewIdentity(&models.User{ID: 10 + branchID, BranchID: branchID, Role: "clerk", Permissions: perms})
}

func superAdmin() auth.Identity {
	return auth.NewIdentity(&models.User{ID: 1, BranchID: 1, Role: "owner", Permissions: []string{auth.PermAll}})
}
