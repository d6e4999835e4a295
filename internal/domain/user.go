package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the access level of a console user
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleStaff UserRole = "STAFF"
)

// User represents a console user who can log in and mutate priced entities
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new user with an already-hashed password
func NewUser(email, name string, role UserRole, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Actor returns the audit actor identity for this user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name}
}
