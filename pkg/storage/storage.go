package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileStorage is the contract for every upload backend.
type FileStorage interface {
	// Upload stores r under folder and returns the URL clients use to fetch it.
	Upload(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (string, error)
	// Delete removes the object previously returned by Upload.
	Delete(ctx context.Context, fileURL string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// objectName builds a unique, filesystem safe name that keeps the original extension.
func objectName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "file"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), base, ext)
}
