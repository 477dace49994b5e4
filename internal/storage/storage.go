// Package storage holds the remote stores product images are committed to.
package storage

import (
	"context"
	"fmt"

	"rhp-backend/internal/config"

	"go.uber.org/zap"
)

// ImageStore persists an image under a name and tells where it is served from.
type ImageStore interface {
	// Name identifies the store in messages and metrics.
	Name() string
	Put(ctx context.Context, name string, content []byte, contentType string) error
	URL(name string) string
}

// New builds the store selected by cfg.Images.Store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ImageStore, error) {
	var (
		store ImageStore
		err   error
	)
	switch cfg.Images.Store {
	case config.StoreGitHub, "":
		store, err = NewGitHubStore(cfg.GitHub, nil)
	case config.StoreS3:
		store, err = NewS3Store(ctx, cfg.S3)
	case config.StoreLocal:
		store, err = NewLocalStore(cfg.Local)
	default:
		return nil, fmt.Errorf("storage: unsupported image store %q", cfg.Images.Store)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Image store configured", zap.String("store", store.Name()))
	return store, nil
}
