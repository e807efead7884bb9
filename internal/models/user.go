package models

import "time"

type UserRole string

const (
	RoleUser    UserRole = "user"    // individual student account
	RoleCollege UserRole = "college" // college administrator
	RoleAdmin   UserRole = "admin"
)

// Identity comes from the auth collaborator's JWT; the core never
// creates or mutates users.
type User struct {
	ID        string    `json:"id"` // uuid
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Role      UserRole  `json:"role"`
}
