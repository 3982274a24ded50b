// Package authz holds the two predicates every boundary check reduces to:
// complaint ownership and the administrative role. Anonymous complaints
// have no owner, so IsOwner can never admit anyone to them; only admins see
// them in aggregate.
package authz

import (
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

func IsOwner(identity types.Identity, c *types.Complaint) bool {
	if !identity.Known() || c == nil || c.UserID == nil {
		return false
	}
	return *c.UserID == identity.ID
}

func IsAdmin(identity types.Identity) bool {
	return identity.Known() && identity.Role == types.RoleAdmin
}

// CanRead reports whether the identity may see an individual complaint.
func CanRead(identity types.Identity, c *types.Complaint) bool {
	return IsAdmin(identity) || IsOwner(identity, c)
}
