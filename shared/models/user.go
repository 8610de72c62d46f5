package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus describes whether an account may sign in.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// IsValid reports whether s is one of the known statuses.
func (s UserStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// User represents a user in the system.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"` // Не отдаем хеш пароля
	Role         Role       `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	LastLogin    *time.Time `db:"last_login" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the account may obtain new tokens.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// PublicUser is the client-facing view of a User. It never carries the password hash.
type PublicUser struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Public builds the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// UserProfileUpdate holds the optional fields of a self-service profile edit.
// Nil fields are left untouched.
type UserProfileUpdate struct {
	FullName *string
	Email    *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil
}

// UserPage is one page of users ordered by creation time, newest first.
type UserPage struct {
	Users    []User
	Total    int64
	Page     int
	PageSize int
}

// Pages returns the number of pages needed to show Total users.
func (p UserPage) Pages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
