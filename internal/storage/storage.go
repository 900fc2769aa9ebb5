// Package storage uploads images into public buckets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore puts objects into named buckets and resolves their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.ReadSeeker, contentType string) error
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}

// ObjectKey names an upload "<unix millis>-<file name>", with the file name
// reduced to characters that are safe in a URL path.
func ObjectKey(now time.Time, filename string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), sanitizeName(filename))
}

func sanitizeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	name := strings.Trim(b.String(), ".-")
	if name == "" {
		return "upload"
	}
	return name
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
