package domain

import "time"

// Role determines what an account may do.
type Role string

const (
	RoleUser     Role = "user"
	RoleHospital Role = "hospital"
)

// User represents a registered account (donor or hospital staff).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
