package domain

import (
	"errors"
	"time"
)

const (
	// RoleAdmin is granted exactly once: to the first registered user.
	RoleAdmin = "ADMIN"
	// RoleAuthor is the role of every subsequent registration.
	RoleAuthor = "AUTHOR"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNameExists         = errors.New("name already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrAdminExists        = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrNotConfigured      = errors.New("service dependencies not configured")
)

// User is the persisted account record. The store assigns ID, CreatedAt and
// UpdatedAt. PasswordHash is kept out of JSON so it can never leak through a
// serialized response.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
