// Package models contains data structures for the board's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"numbertalk/internal/authz"
)

// User is a registered board member.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = string(authz.RoleRegistered)
	}
	return nil
}

// Actor returns the authorization view of the user.
func (u *User) Actor() authz.Actor {
	return authz.Actor{ID: u.ID, Username: u.Username, Role: authz.ParseRole(u.Role)}
}

// AuthenticatedUser is the public profile returned by the auth endpoints.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public strips credentials from the user.
func (u *User) Public() AuthenticatedUser {
	return AuthenticatedUser{ID: u.ID, Username: u.Username, Role: string(authz.ParseRole(u.Role))}
}
