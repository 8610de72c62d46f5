package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"user-server/shared/interfaces"
	"user-server/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishTimeout = 10 * time.Second
	appID          = "user-server"
)

var (
	_ interfaces.UserEventPublisher = (*rabbitMQUserEventPublisher)(nil)
	_ interfaces.UserEventPublisher = NoopPublisher{}
)

type rabbitMQUserEventPublisher struct {
	mu        sync.Mutex
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQUserEventPublisher opens a channel on conn and declares a durable queue for user events.
func NewRabbitMQUserEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.UserEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("user event publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("user event publisher: failed to declare queue '%s': %w", queueName, err)
	}

	logger.Info("RabbitMQ user event publisher initialized", zap.String("queue", queueName))
	return &rabbitMQUserEventPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("UserEventPublisher"),
	}, nil
}

func (p *rabbitMQUserEventPublisher) PublishUserEvent(ctx context.Context, event models.UserEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal user event", zap.String("type", string(event.Type)), zap.Error(err))
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	if p.channel == nil {
		p.mu.Unlock()
		return errors.New("rabbitmq channel is not initialized")
	}
	err = p.channel.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Type:         string(event.Type),
			Body:         body,
			Timestamp:    event.OccurredAt,
			AppId:        appID,
		},
	)
	p.mu.Unlock()
	if err != nil {
		p.logger.Error("Failed to publish user event",
			zap.String("queue", p.queueName),
			zap.String("type", string(event.Type)),
			zap.String("userID", event.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to publish to queue %s: %w", p.queueName, err)
	}

	p.logger.Debug("User event published",
		zap.String("queue", p.queueName),
		zap.String("type", string(event.Type)),
		zap.String("userID", event.UserID.String()),
	)
	return nil
}

func (p *rabbitMQUserEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	return err
}

// NoopPublisher drops every event. Used when RabbitMQ is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserEvent(context.Context, models.UserEvent) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }

// ConnectRabbitMQ dials uri, retrying a few times while the broker starts up.
func ConnectRabbitMQ(ctx context.Context, uri string, logger *zap.Logger) (*amqp.Connection, error) {
	const maxRetries = 5
	const retryDelay = 2 * time.Second

	var conn *amqp.Connection
	var err error
	for i := 1; i <= maxRetries; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Connected to RabbitMQ")
			notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))
			go func() {
				if closeErr := <-notifyClose; closeErr != nil {
					logger.Error("RabbitMQ connection closed", zap.Error(closeErr))
				}
			}()
			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}
