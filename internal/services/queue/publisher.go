package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) PublishArtifact(ctx context.Context, event *models.ArtifactEvent) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish artifact event: %w", err)
	}

	q.logger.Info("Artifact event published",
		zap.String("operation", string(event.Operation)),
		zap.String("artifact", event.Output.Name))
	return nil
}

func encodeEvent(event *models.ArtifactEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal artifact event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         string(event.Operation),
	}, nil
}
