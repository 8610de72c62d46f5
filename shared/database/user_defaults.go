package database

import (
	"time"

	"user-server/shared/models"

	"github.com/google/uuid"
)

// prepareNewUser fills the fields a repository assigns on insert when the caller left them empty.
func prepareNewUser(user *models.User, now time.Time) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
}
