package queue

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher announces stored transform outputs to downstream consumers.
type Publisher interface {
	PublishArtifact(ctx context.Context, event *models.ArtifactEvent) error
	HealthCheck() string
	// QueueStats returns nil stats when there is no queue to inspect.
	QueueStats() (*models.QueueStats, error)
	Close() error
}

type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
}

func NewQueueService(rabbitmqURL, queueName string, logger *zap.Logger) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &QueueService{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}

// NoopPublisher drops events. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishArtifact(context.Context, *models.ArtifactEvent) error { return nil }

func (NoopPublisher) HealthCheck() string { return "disabled" }

func (NoopPublisher) QueueStats() (*models.QueueStats, error) { return nil, nil }

func (NoopPublisher) Close() error { return nil }
