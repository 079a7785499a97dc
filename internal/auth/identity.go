package auth

import "branchdesk-backend/internal/models"

// Permission names granted to users. Roles are labels; permissions decide.
const (
	PermAll            = "*"
	PermItemsRead      = "items:read"
	PermItemsWrite     = "items:write"
	PermStockAdjust    = "stock:adjust"
	PermPartiesRead    = "parties:read"
	PermPartiesWrite   = "parties:write"
	PermEnquiriesRead  = "enquiries:read"
	PermEnquiriesWrite = "enquiries:write"
	PermOrdersRead     = "orders:read"
	PermOrdersWrite    = "orders:write"
	PermReturnsRead    = "returns:read"
	PermReturnsWrite   = "returns:write"
	PermPaymentsManage = "payments:manage"
	PermUsersManage    = "users:manage"
)

// KnownPermissions lists every grantable permission
var KnownPermissions = []string{
	PermAll, PermItemsRead, PermItemsWrite, PermStockAdjust,
	PermPartiesRead, PermPartiesWrite, PermEnquiriesRead, PermEnquiriesWrite,
	PermOrdersRead, PermOrdersWrite, PermReturnsRead, PermReturnsWrite,
	PermPaymentsManage, PermUsersManage,
}

// IsKnownPermission reports whether p can be granted
func IsKnownPermission(p string) bool {
	for _, k := range KnownPermissions {
		if k == p {
			return true
		}
	}
	return false
}

// Identity is the authenticated caller, resolved once per request by the auth middleware
type Identity struct {
	UserID      int
	Role        string
	BranchID    int
	Permissions map[string]struct{}
}

// NewIdentity builds an identity from a freshly loaded user row
func NewIdentity(u *models.User) Identity {
	perms := make(map[string]struct{}, len(u.Permissions))
	for _, p := range u.Permissions {
		perms[p] = struct{}{}
	}
	return Identity{
		UserID:      u.ID,
		Role:        u.Role,
		BranchID:    u.BranchID,
		Permissions: perms,
	}
}

// IsSuperAdmin reports whether the identity holds the universal capability
func (i Identity) IsSuperAdmin() bool {
	_, ok := i.Permissions[PermAll]
	return ok
}

// HasAny reports whether the identity holds at least one of required.
// Holding "*" satisfies every check.
func (i Identity) HasAny(required ...string) bool {
	if i.IsSuperAdmin() {
		return true
	}
	for _, p := range required {
		if _, ok := i.Permissions[p]; ok {
			return true
		}
	}
	return false
}

// CanAccessBranch reports whether a record owned by branchID is visible to the identity
func (i Identity) CanAccessBranch(branchID int) bool {
	return i.IsSuperAdmin() || i.BranchID == branchID
}
