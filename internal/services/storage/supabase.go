package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseBackend stores artifacts in a Supabase Storage bucket and returns public URLs.
type SupabaseBackend struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseBackend(url, key, bucket string) (*SupabaseBackend, error) {
	if url == "" || key == "" || bucket == "" {
		return nil, fmt.Errorf("SUPABASE_URL, SUPABASE_KEY and SUPABASE_BUCKET are required for the supabase backend")
	}
	return &SupabaseBackend{
		client: storage_go.NewClient(url+"/storage/v1", key, nil),
		bucket: bucket,
	}, nil
}

func (b *SupabaseBackend) Name() string { return "supabase" }

func (b *SupabaseBackend) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	upsert := false
	_, err := b.client.UploadFile(b.bucket, name, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := b.client.GetPublicUrl(b.bucket, name)
	return publicURL.SignedURL, nil
}

func (b *SupabaseBackend) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := b.client.DownloadFile(b.bucket, name)
	if err != nil {
		if isSupabaseNotFound(err) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "storage.supabase.get", "artifact not found", err)
		}
		return nil, fmt.Errorf("failed to download from supabase: %w", err)
	}
	return data, nil
}

func (b *SupabaseBackend) HealthCheck(ctx context.Context) error {
	_, err := b.client.ListFiles(b.bucket, "", storage_go.FileSearchOptions{})
	return err
}

// The client reports storage errors as text only.
func isSupabaseNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
