package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"user-server/shared/models"

	"github.com/docker/docker/client"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestRabbitMQUserEventPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		cli.Close()
		t.Skipf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	ctx := context.Background()
	rmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rmqContainer.Terminate(ctx) })

	amqpURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	conn, err := ConnectRabbitMQ(ctx, amqpURL, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	publisher, err := NewRabbitMQUserEventPublisher(conn, "user_events_test", zap.NewNop())
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Status: models.StatusActive}
	event := models.NewUserEvent(models.UserEventRegistered, user)
	require.NoError(t, publisher.PublishUserEvent(ctx, event))

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	var delivery amqp.Delivery
	require.Eventually(t, func() bool {
		msg, ok, err := ch.Get("user_events_test", true)
		if err != nil || !ok {
			return false
		}
		delivery = msg
		return true
	}, 10*time.Second, 100*time.Millisecond)

	assert.Equal(t, "application/json", delivery.ContentType)
	assert.Equal(t, string(models.UserEventRegistered), delivery.Type)
	assert.Equal(t, event.EventID, delivery.MessageId)

	var got models.UserEvent
	require.NoError(t, json.Unmarshal(delivery.Body, &got))
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "jane@example.com", got.Email)

	require.NoError(t, publisher.Close())
	assert.Error(t, publisher.PublishUserEvent(ctx, event), "publishing after Close must fail")
}
