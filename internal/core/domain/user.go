package domain

import (
	"errors"
	"time"
)

const (
	RoleManager    = "manager"
	RoleTeamMember = "team-member"
	// RoleAdmin is a legacy role still present in older accounts. It is never
	// assigned at signup but keeps its elevated delete rights on tasks.
	RoleAdmin = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidRole = errors.New("invalid role")

// User models an account in the workspace.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public projection of a user embedded in enriched payloads.
// It never carries the password hash.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleManager, RoleTeamMember, RoleAdmin:
		return true
	}
	return false
}
