package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleStaff UserRole = "staff"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

// Actor is the authenticated principal an operation runs on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}
