package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"rhp-backend/internal/config"
)

// LocalStore keeps images on the local filesystem. Meant for development.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore resolves the root directory, storage/images unless configured.
func NewLocalStore(cfg config.LocalConfig) (*LocalStore, error) {
	root := cfg.Root
	if root == "" {
		root = "storage/images"
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("storage/local: resolve root: %w", err)
		}
		root = abs
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *LocalStore) Name() string { return "local storage" }

// Put refuses to overwrite an existing file, matching the remote stores.
func (s *LocalStore) Put(ctx context.Context, name string, content []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.root, filepath.Base(filepath.FromSlash(name)))
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	return f.Close()
}

func (s *LocalStore) URL(name string) string {
	return s.baseURL + "/" + strings.TrimLeft(name, "/")
}

// Handler serves the stored files, for mounting under the public URL prefix.
func (s *LocalStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.root))
}
