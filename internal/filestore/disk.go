// Package filestore persists uploaded blobs on local disk and serves
// them back by public URL.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore writes blobs under a root directory that the HTTP layer
// serves statically.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir, addressable under
// baseURL.
func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Store writes the blob and returns its public URL. The stored name
// gets a random prefix so repeated uploads never collide.
func (s *DiskStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty blob")
	}

	rel := sanitize(name)
	dir, file := filepath.Split(rel)
	file = uuid.New().String()[:8] + "-" + file
	rel = filepath.Join(dir, file)

	fullDir := filepath.Join(s.dir, dir)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.baseURL + "/" + filepath.ToSlash(rel), nil
}

// sanitize strips path traversal and unsafe characters from an upload
// name, keeping at most one directory level.
func sanitize(name string) string {
	name = filepath.ToSlash(name)
	parts := strings.Split(name, "/")

	clean := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
				r == '-', r == '_', r == '.':
				b.WriteRune(r)
			}
		}
		return strings.Trim(b.String(), ".")
	}

	file := clean(parts[len(parts)-1])
	if file == "" {
		file = "upload"
	}

	if len(parts) > 1 {
		if dir := clean(parts[0]); dir != "" {
			return dir + "/" + file
		}
	}
	return file
}
