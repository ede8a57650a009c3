package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// MediaBucket is the GCS backend for course media. Objects are addressed by
// their key inside the configured bucket.
type MediaBucket struct {
	log    *logger.Logger
	client *storage.Client
	cfg    MediaBucketConfig
}

func NewMediaBucket(ctx context.Context, log *logger.Logger, cfg MediaBucketConfig) (*MediaBucket, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "GCSMediaBucket")
	serviceLog.Info("Media bucket initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "public_base_url", cfg.PublicBaseURL)
	return &MediaBucket{log: serviceLog, client: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg MediaBucketConfig) (*storage.Client, error) {
	if cfg.Mode == StorageModeGCSEmulator {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *MediaBucket) Name() string { return "gcs" }

// URL returns the public URL of key.
func (b *MediaBucket) URL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case b.cfg.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", b.cfg.CDNDomain, key)
	case b.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", b.cfg.PublicBaseURL, b.cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.cfg.Bucket, key)
	}
}

// Owns reports whether rawURL was built by URL for this bucket.
func (b *MediaBucket) Owns(rawURL string) bool {
	_, err := b.KeyFromURL(rawURL)
	return err == nil
}

// KeyFromURL is the inverse of URL.
func (b *MediaBucket) KeyFromURL(rawURL string) (string, error) {
	return keyFromURL(b.cfg, rawURL)
}

func keyFromURL(cfg MediaBucketConfig, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse media url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("media url %q is not absolute", rawURL)
	}
	p := u.Path
	var key string
	switch {
	case cfg.CDNDomain != "" && strings.EqualFold(u.Host, cfg.CDNDomain):
		key = strings.TrimPrefix(p, "/")
	case cfg.PublicBaseURL != "" && strings.HasPrefix(rawURL, cfg.PublicBaseURL+"/"+cfg.Bucket+"/"):
		key = strings.TrimPrefix(strings.TrimPrefix(rawURL, cfg.PublicBaseURL), "/"+cfg.Bucket+"/")
		key, err = url.PathUnescape(strings.SplitN(key, "?", 2)[0])
		if err != nil {
			return "", err
		}
	case strings.EqualFold(u.Host, "storage.googleapis.com") && strings.HasPrefix(p, "/"+cfg.Bucket+"/"):
		key = strings.TrimPrefix(p, "/"+cfg.Bucket+"/")
	default:
		return "", fmt.Errorf("media url %q is not in bucket %s", rawURL, cfg.Bucket)
	}
	key = path.Clean("/" + key)[1:]
	if key == "" || key == "." {
		return "", fmt.Errorf("media url %q has no object key", rawURL)
	}
	return key, nil
}

func (b *MediaBucket) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := b.client.Bucket(b.cfg.Bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// CopyFromURL performs a server-side rewrite of the object behind srcURL and
// returns once the object exists at dstKey.
func (b *MediaBucket) CopyFromURL(ctx context.Context, srcURL, dstKey string) error {
	srcKey, err := b.KeyFromURL(srcURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	bucket := b.client.Bucket(b.cfg.Bucket)
	if _, err := bucket.Object(dstKey).CopierFrom(bucket.Object(srcKey)).Run(ctx); err != nil {
		return fmt.Errorf("copy %s->%s: %w", srcKey, dstKey, err)
	}
	return nil
}

func (b *MediaBucket) Close() error {
	return b.client.Close()
}
