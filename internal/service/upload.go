package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"wedding/site/internal/storage"
)

// Upload is an image file received from a form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.ReadSeeker
}

type uploaded struct {
	bucket string
	key    string
	url    string
}

// storeImage puts the upload into bucket and returns where it can be fetched.
func storeImage(ctx context.Context, store storage.ObjectStore, bucket string, up *Upload, now time.Time) (*uploaded, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, ErrUnsupportedImage
	}
	key := storage.ObjectKey(now, up.Filename)
	if err := store.Upload(ctx, bucket, key, up.Body, up.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &uploaded{bucket: bucket, key: key, url: store.PublicURL(bucket, key)}, nil
}
