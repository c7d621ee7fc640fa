package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

// LocalBackend keeps artifacts as files in one directory that is also served over HTTP.
type LocalBackend struct {
	root       string
	publicPath string
}

func NewLocalBackend(root, publicPath string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &LocalBackend{
		root:       root,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (b *LocalBackend) Name() string { return "local" }

// Root is the directory served at the public path.
func (b *LocalBackend) Root() string { return b.root }

func (b *LocalBackend) PublicPath() string { return b.publicPath }

func (b *LocalBackend) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	f, err := os.OpenFile(filepath.Join(b.root, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("artifact %s already exists", name)
		}
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return path.Join(b.publicPath, name), nil
}

func (b *LocalBackend) Get(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNotFound, "storage.local.get", "artifact not found", err)
	}

	data, err := os.ReadFile(filepath.Join(b.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "storage.local.get", "artifact not found", err)
		}
		return nil, err
	}
	return data, nil
}

func (b *LocalBackend) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(b.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.root)
	}
	return nil
}

// checkName rejects names that could escape the storage root.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}
