package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EventHandler receives artifact events taken off the queue. A returned error requeues the message.
type EventHandler func(ctx context.Context, event *models.ArtifactEvent) error

// StartConsumer delivers queued artifact events to handle until ctx is cancelled.
func (q *QueueService) StartConsumer(ctx context.Context, consumerID int, handle EventHandler) error {
	msgs, err := q.channel.Consume(
		q.queueName,                            // queue
		fmt.Sprintf("consumer-%d", consumerID), // consumer
		false,                                  // auto-ack
		false,                                  // exclusive
		false,                                  // no-local
		false,                                  // no-wait
		nil,                                    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Event consumer started", zap.Int("consumer_id", consumerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Event consumer stopping", zap.Int("consumer_id", consumerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("consumer_id", consumerID))
					return
				}
				handleDelivery(ctx, q.logger, msg, handle)
			}
		}
	}()

	return nil
}

func handleDelivery(ctx context.Context, logger *zap.Logger, msg amqp.Delivery, handle EventHandler) {
	var event models.ArtifactEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("Failed to unmarshal artifact event", zap.Error(err))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	if err := handle(ctx, &event); err != nil {
		logger.Error("Artifact event handler failed",
			zap.String("operation", string(event.Operation)),
			zap.Error(err))
		msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to ack message", zap.Error(err))
	}
}

// LogEvents is an EventHandler that records each artifact in the service log.
func LogEvents(logger *zap.Logger) EventHandler {
	return func(ctx context.Context, event *models.ArtifactEvent) error {
		fields := []zap.Field{zap.String("operation", string(event.Operation))}
		if event.Input != nil {
			fields = append(fields, zap.String("input", event.Input.Name))
		}
		if event.Output != nil {
			fields = append(fields,
				zap.String("artifact", event.Output.Name),
				zap.Int64("size", event.Output.Size))
		}
		logger.Info("Artifact recorded", fields...)
		return nil
	}
}
