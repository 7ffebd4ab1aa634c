package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type localStorage struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStorage keeps files under baseDir. Returned URLs start with
// urlPrefix, which the HTTP server maps back onto baseDir.
func NewLocalStorage(baseDir, urlPrefix string) (FileStorage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &localStorage{
		baseDir:   abs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (s *localStorage) Upload(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (string, error) {
	dir := filepath.Join(s.baseDir, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	name := objectName(fileName)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(s.urlPrefix, filepath.ToSlash(filepath.Clean("/"+folder)), name), nil
}

func (s *localStorage) Delete(ctx context.Context, fileURL string) error {
	rel := strings.TrimPrefix(fileURL, s.urlPrefix)
	if rel == fileURL {
		return fmt.Errorf("url %q is not served by local storage", fileURL)
	}

	target := filepath.Join(s.baseDir, filepath.Clean("/"+rel))
	if !strings.HasPrefix(target, s.baseDir+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete outside upload dir: %s", fileURL)
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
