package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Object is a stored upload.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryStore keeps uploads in process memory and serves them under
// <base>/public/<bucket>/<key>. Intended for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object), baseURL: baseURL}
}

func (m *MemoryStore) Upload(_ context.Context, bucket, key string, body io.ReadSeeker, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = Object{Body: buf.Bytes(), ContentType: contentType}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *MemoryStore) Get(bucket, key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[bucket+"/"+key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

func (m *MemoryStore) PublicURL(bucket, key string) string {
	return joinURL(m.baseURL, "public", bucket, key)
}
