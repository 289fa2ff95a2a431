// Package storage keeps uploaded ticket files on the local filesystem.
package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
)

const fileNameRandomBytes = 16

var ErrInvalidPath = errors.New("path escapes the storage root")

// LocalStorage writes files below root. Stored paths are slash separated and relative to root.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root: %w", err)
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

var _ usecases.FileStorage = (*LocalStorage)(nil)

func (s *LocalStorage) Save(ctx context.Context, dir, ext string, r io.Reader, maxBytes int64) (*usecases.StoredFile, error) {
	name, err := randomName(ext)
	if err != nil {
		return nil, err
	}
	rel := path.Join(dir, name)
	dst, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), &ctxReader{ctx: ctx, r: src})
	if err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if maxBytes > 0 && n > maxBytes {
		return nil, ticket.ErrImageTooLarge
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close upload: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return nil, fmt.Errorf("failed to move upload into place: %w", err)
	}
	committed = true

	return &usecases.StoredFile{
		Path:     rel,
		Size:     n,
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func (s *LocalStorage) Open(p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStorage) Remove(p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a stored path to an absolute path inside root.
func (s *LocalStorage) resolve(p string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(p))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func randomName(ext string) (string, error) {
	b := make([]byte, fileNameRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	name := hex.EncodeToString(b)
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return name, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
