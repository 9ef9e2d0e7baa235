package models

import "time"

type UserRole string

const (
	RoleCoach UserRole = "coach"
	RoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBanned  UserStatus = "banned"
)

type User struct {
	ID             int        `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	EmailConfirmed bool       `json:"email_confirmed"`
	CreatedAt      time.Time  `json:"created_at"`

	EmailConfirmationToken string     `json:"-"`
	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
}

type UserFilter struct {
	Status *UserStatus
	Page   int
	Limit  int
}

type UserListResponse struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
