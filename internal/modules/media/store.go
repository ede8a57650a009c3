package media

import "context"

// BlobStore is the object store holding course media. Keys are paths inside
// the store's bucket or container; URLs are the public form saved on rows.
type BlobStore interface {
	Name() string
	// Owns reports whether rawURL points into this store.
	Owns(rawURL string) bool
	KeyFromURL(rawURL string) (string, error)
	URL(key string) string
	Exists(ctx context.Context, key string) (bool, error)
	// CopyFromURL copies the object behind srcURL to dstKey server side.
	CopyFromURL(ctx context.Context, srcURL, dstKey string) error
}
