package storage

import (
	"context"
	"time"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/phambaophuc/image-toolkit/pkg/utils"
	"go.uber.org/zap"
)

const octetStream = "application/octet-stream"

// Store validates and persists an uploaded original. An empty or generic declared type is
// replaced by the type sniffed from data.
func (s *StorageService) Store(ctx context.Context, data []byte, filename, declaredContentType string) (*models.Artifact, error) {
	const op = "storage.store"

	contentType := utils.NormalizeContentType(declaredContentType)
	if contentType == "" || contentType == octetStream {
		contentType = utils.DetectContentType(data)
	}

	if !utils.IsValidImageType(contentType, s.allowedTypes) {
		return nil, apperrors.New(apperrors.KindUnsupportedMediaType, op,
			"Invalid file type. Supported formats: JPEG, PNG, WebP, GIF")
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, apperrors.New(apperrors.KindPayloadTooLarge, op,
			"File too large. Maximum size is "+utils.HumanSize(s.maxFileSize))
	}

	return s.put(ctx, op, utils.GenerateUploadName(filename), contentType, data)
}

// SaveOutput persists a transform result as <prefix>-<uuid>.<ext>.
func (s *StorageService) SaveOutput(ctx context.Context, data []byte, prefix string, format models.Format) (*models.Artifact, error) {
	return s.put(ctx, "storage.save_output", utils.GenerateOutputName(prefix, format.Extension()), format.ContentType(), data)
}

func (s *StorageService) put(ctx context.Context, op, name, contentType string, data []byte) (*models.Artifact, error) {
	url, err := s.backend.Put(ctx, name, contentType, data)
	if err != nil {
		s.logger.Error("Failed to store artifact",
			zap.String("backend", s.backend.Name()),
			zap.String("artifact", name),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindInternal, op, "failed to store artifact", err)
	}

	return &models.Artifact{
		ID:          name,
		Name:        name,
		URL:         url,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now(),
	}, nil
}
