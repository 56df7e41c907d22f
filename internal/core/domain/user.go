package domain

import (
	"strings"
	"time"
)

// Role is the flat access level of a user.
type Role string

const (
	RoleVisitor Role = "visitor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleVisitor || r == RoleAdmin
}

// User models a registered account.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	DateOfBirth  *time.Time
	PhotoPath    *string
	Role         Role
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// FullName is the display name used as a news byline.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// NormalizeEmail lowercases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
