package models

// Role is the authorization level of a user.
type Role string

// Определяем константы для ролей
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)
