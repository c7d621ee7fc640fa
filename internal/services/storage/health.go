package storage

import (
	"context"

	"go.uber.org/zap"
)

// HealthCheck reports the configured backend as healthy or unhealthy.
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if err := s.backend.HealthCheck(ctx); err != nil {
		s.logger.Warn("Storage health check failed", zap.String("backend", s.backend.Name()), zap.Error(err))
		status["storage_"+s.backend.Name()] = "unhealthy"
	} else {
		status["storage_"+s.backend.Name()] = "healthy"
	}

	return status
}
