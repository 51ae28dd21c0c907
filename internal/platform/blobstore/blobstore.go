// Package blobstore indirects file storage through an external object store.
// The ObjectStore interface is the consumed capability (upload, sign, delete,
// list); Gateway owns key construction and converts every underlying failure
// into a Storage error carrying its cause. The gateway performs network I/O
// and must never be called while holding a record-store lock.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

// DefaultSignedURLTTL is the lifetime of a signed read URL when the caller
// does not specify one. Signed URLs are regenerated per access, never stored.
const DefaultSignedURLTTL = 3600 * time.Second

// ObjectInfo describes one remote object. Ordering of listings is
// store-defined; the gateway does not sort.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ObjectStore is the external storage capability the gateway wraps.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, content io.Reader) (url string, size int64, err error)
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// UploadResult is the descriptor returned after a successful upload.
type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Gateway wraps an ObjectStore with key namespacing, per-call timeouts and
// error classification.
type Gateway struct {
	store   ObjectStore
	timeout time.Duration
	now     func() time.Time
}

// NewGateway builds a gateway. A non-positive timeout disables the per-call
// deadline.
func NewGateway(store ObjectStore, timeout time.Duration) *Gateway {
	return &Gateway{store: store, timeout: timeout, now: time.Now}
}

func (g *Gateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// ObjectKey builds the namespaced storage key for a patient attachment. The
// millisecond timestamp keeps keys unique per patient even for repeated
// filenames.
func (g *Gateway) ObjectKey(patientID int64, originalName string) string {
	return fmt.Sprintf("patients/%d/%d-%s", patientID, g.now().UnixMilli(), originalName)
}

// Upload stores content under a fresh namespaced key and returns the
// descriptor. Any failure of the underlying store surfaces as a Storage
// error; the raw error is never propagated bare.
func (g *Gateway) Upload(ctx context.Context, patientID int64, originalName, contentType string, content io.Reader) (*UploadResult, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	key := g.ObjectKey(patientID, originalName)
	url, size, err := g.store.PutObject(ctx, key, contentType, content)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "File upload failed", err)
	}
	return &UploadResult{Key: key, URL: url, Size: size, Type: contentType}, nil
}

// SignedReadURL returns a time-limited read URL for the given key. A
// non-positive ttl falls back to DefaultSignedURLTTL.
func (g *Gateway) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	url, err := g.store.SignedReadURL(ctx, key, ttl)
	if err != nil {
		return "", apperr.Wrap(apperr.Storage, "Failed to sign file URL", err)
	}
	return url, nil
}

// Delete removes the remote object. Behavior for a key that does not exist
// is store-dependent; callers must not assume idempotence.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	if err := g.store.DeleteObject(ctx, key); err != nil {
		return apperr.Wrap(apperr.Storage, "File delete failed", err)
	}
	return nil
}

// List returns the remote objects under a patient's namespace, optionally
// narrowed by an extra key prefix.
func (g *Gateway) List(ctx context.Context, patientID int64, keyPrefix string) ([]ObjectInfo, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	prefix := fmt.Sprintf("patients/%d/%s", patientID, keyPrefix)
	objects, err := g.store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "File listing failed", err)
	}
	return objects, nil
}
