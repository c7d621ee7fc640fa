package queue

import (
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/models"
)

// QueueStats reports the depth and consumer count of the artifact event queue.
func (q *QueueService) QueueStats() (*models.QueueStats, error) {
	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return &models.QueueStats{
		Name:      queueInfo.Name,
		Messages:  queueInfo.Messages,
		Consumers: queueInfo.Consumers,
	}, nil
}

// HealthCheck checks if RabbitMQ is available
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy"
	}
	if q.channel == nil {
		return "unhealthy"
	}
	return "healthy"
}
