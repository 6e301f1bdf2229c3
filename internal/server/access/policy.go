// Package access is the policy layer deciding whether an actor may act on a
// folder or file. It holds no state; decisions depend only on the actor's
// privileges and the resource's ownership.
package access

import "github.com/i2clabs/fileserver/internal/server/models"

// Action enumerates the operations the policy arbitrates.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
	ActionShare
)

// CanAccess reports whether the principal may perform action on a resource
// owned by ownerID.
//
// Owners hold every right on their own resources. Admins additionally get
// read on everything, but never write, delete, or share on other users'
// resources. Anonymous actors (nil principal) are always refused here;
// share-token reads bypass this policy entirely and are resolved by the
// share service.
func CanAccess(p *models.Principal, ownerID int64, action Action) bool {
	if p == nil {
		return false
	}
	if p.UserID == ownerID {
		return true
	}
	if p.IsAdmin && action == ActionRead {
		return true
	}
	return false
}
