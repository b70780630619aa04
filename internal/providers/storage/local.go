package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SarangTandel5112/care-connects/internal/config"
)

var ErrNotFound = errors.New("blob_not_found")

// LocalProvider stores blobs under a directory on the service host. Suitable
// for single-node deployments; object storage slots in behind the same
// interface.
type LocalProvider struct {
	dir string
}

func NewLocal(cfg config.Config) (Provider, error) {
	dir := strings.TrimSpace(cfg.DocumentDir)
	if dir == "" {
		return nil, errors.New("document dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &LocalProvider{dir: dir}, nil
}

func (p *LocalProvider) path(key string) (string, error) {
	// Keys are ULIDs, but never trust them as path segments.
	clean := filepath.Base(filepath.Clean(key))
	if clean == "" || clean == "." || clean == string(filepath.Separator) {
		return "", errors.New("invalid blob key")
	}
	return filepath.Join(p.dir, clean), nil
}

func (p *LocalProvider) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := p.path(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(p.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *LocalProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
