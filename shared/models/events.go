package models

import (
	"time"

	"github.com/google/uuid"
)

// UserEventType names a user lifecycle event.
type UserEventType string

const (
	UserEventRegistered      UserEventType = "user.registered"
	UserEventStatusChanged   UserEventType = "user.status_changed"
	UserEventPasswordChanged UserEventType = "user.password_changed"
	UserEventProfileUpdated  UserEventType = "user.profile_updated"
)

// UserEvent is the payload published for user lifecycle changes.
type UserEvent struct {
	EventID    string        `json:"event_id"`
	Type       UserEventType `json:"type"`
	UserID     uuid.UUID     `json:"user_id"`
	Email      string        `json:"email,omitempty"`
	Status     UserStatus    `json:"status,omitempty"`
	ActorID    *uuid.UUID    `json:"actor_id,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewUserEvent builds an event for user u with a fresh id and timestamp.
func NewUserEvent(eventType UserEventType, u *User) UserEvent {
	return UserEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		UserID:     u.ID,
		Email:      u.Email,
		Status:     u.Status,
		OccurredAt: time.Now().UTC(),
	}
}
