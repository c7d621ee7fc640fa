package storage

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/config"
	"go.uber.org/zap"
)

// Backend persists artifacts under unique names. Put never overwrites an existing name.
type Backend interface {
	Name() string
	Put(ctx context.Context, name, contentType string, data []byte) (url string, err error)
	Get(ctx context.Context, name string) ([]byte, error)
	HealthCheck(ctx context.Context) error
}

// StorageService validates uploads and names artifacts before handing them to a Backend.
type StorageService struct {
	backend      Backend
	maxFileSize  int64
	allowedTypes []string
	logger       *zap.Logger
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) (*StorageService, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Storage backend configured", zap.String("backend", backend.Name()))
	return NewStorageServiceWithBackend(backend, cfg.Storage.MaxFileSize, cfg.Storage.AllowedTypes, logger), nil
}

func NewStorageServiceWithBackend(backend Backend, maxFileSize int64, allowedTypes []string, logger *zap.Logger) *StorageService {
	return &StorageService{
		backend:      backend,
		maxFileSize:  maxFileSize,
		allowedTypes: allowedTypes,
		logger:       logger,
	}
}

func (s *StorageService) Backend() Backend {
	return s.backend
}

func newBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		return NewLocalBackend(cfg.Storage.UploadPath, cfg.Storage.PublicPath)
	case config.StorageSupabase:
		return NewSupabaseBackend(cfg.Supabase.URL, cfg.Supabase.KEY, cfg.Supabase.BUCKET)
	case config.StorageS3:
		return NewS3Backend(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
