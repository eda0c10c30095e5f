package storage

import (
	"context"
	"io"

	"tailorshop-backend/config"

	"github.com/pkg/errors"
)

// Store keeps uploaded order images and requirement icons. Keys are
// slash-separated relative paths ("orders/3f2c...jpg").
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by Get for unknown keys
var ErrNotFound = errors.New("blob not found")

// Open builds the store selected by cfg.Driver
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg)
	}
	return nil, errors.Errorf("unsupported storage driver %q", cfg.Driver)
}
