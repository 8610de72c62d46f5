package mocks

import (
	"context"

	"user-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// Mock UserEventPublisher
type UserEventPublisher struct {
	mock.Mock
}

func (m *UserEventPublisher) PublishUserEvent(ctx context.Context, event models.UserEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *UserEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
