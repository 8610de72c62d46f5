package interfaces

import (
	"context"

	"user-server/shared/models"
)

// UserEventPublisher publishes user lifecycle events to interested consumers.
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, event models.UserEvent) error
	Close() error
}
