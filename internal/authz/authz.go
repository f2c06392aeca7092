// Package authz decides whether an actor may mutate an owned record.
package authz

import (
	"errors"
	"strings"
)

// Role is a user's permission level.
type Role string

const (
	RoleRegistered Role = "registered"
	RoleAdmin      Role = "admin"
)

// ErrPermissionDenied is returned when an actor may not mutate a record.
var ErrPermissionDenied = errors.New("permission denied")

// Actor is the authenticated caller of a request.
type Actor struct {
	ID       string
	Username string
	Role     Role
}

// Owner identifies the creator of a record. An empty ID means the owner is unknown.
type Owner struct {
	ID string
}

// ParseRole maps a stored or claimed role string to a Role. Unknown values
// fall back to RoleRegistered.
func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleRegistered
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanMutate reports whether actor may edit a record owned by owner.
func CanMutate(actor Actor, owner Owner) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID != "" && actor.ID == owner.ID
}

// Authorize returns ErrPermissionDenied when CanMutate is false.
func Authorize(actor Actor, owner Owner) error {
	if !CanMutate(actor, owner) {
		return ErrPermissionDenied
	}
	return nil
}

// OwnerOf builds an Owner from a nullable owner id column.
func OwnerOf(id *string) Owner {
	if id == nil {
		return Owner{}
	}
	return Owner{ID: *id}
}
