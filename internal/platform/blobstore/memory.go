package blobstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryObjectStore is an in-process ObjectStore for development and tests.
// A fault can be injected with FailWith to exercise storage failure paths.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
	failErr error
}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemoryObjectStore returns an empty in-memory store. baseURL prefixes
// the fake object URLs it hands out.
func NewMemoryObjectStore(baseURL string) *MemoryObjectStore {
	if baseURL == "" {
		baseURL = "memory://bucket"
	}
	return &MemoryObjectStore{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
	}
}

// FailWith makes every subsequent call fail with err. Pass nil to clear.
func (s *MemoryObjectStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *MemoryObjectStore) fault() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failErr
}

func (s *MemoryObjectStore) PutObject(ctx context.Context, key, contentType string, content io.Reader) (string, int64, error) {
	if err := s.fault(); err != nil {
		return "", 0, err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", 0, err
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{
		data:         data,
		contentType:  contentType,
		lastModified: time.Now().UTC(),
	}
	s.mu.Unlock()

	return s.baseURL + "/" + key, int64(len(data)), nil
}

func (s *MemoryObjectStore) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.fault(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %q not found", key)
	}

	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, key, expires), nil
}

func (s *MemoryObjectStore) DeleteObject(ctx context.Context, key string) error {
	if err := s.fault(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object %q not found", key)
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryObjectStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ObjectInfo
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	// map iteration order is random; sort so listings are stable for tests
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Contains reports whether a key exists. Test helper.
func (s *MemoryObjectStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects. Test helper.
func (s *MemoryObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
