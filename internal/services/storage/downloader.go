package storage

import (
	"context"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

// Load returns the bytes stored under name, or a NotFound error.
func (s *StorageService) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "storage.load", "failed to load artifact", err)
	}
	return data, nil
}
