package azureblob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/avast/retry-go"

	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// DefaultHostSuffix identifies public Azure blob endpoints.
const DefaultHostSuffix = "blob.core.windows.net"

type Config struct {
	ConnectionString string `yaml:"connection_string"`
	Container        string `yaml:"container"`
	// Hosts lists extra endpoint hosts (e.g. an Azurite emulator) treated as owned.
	Hosts []string `yaml:"hosts"`
	// CopyPollInterval and CopyTimeout bound the wait for a pending server-side copy.
	CopyPollInterval time.Duration `yaml:"copy_poll_interval"`
	CopyTimeout      time.Duration `yaml:"copy_timeout"`
}

// Store is the Azure Blob Storage backend for course media. Keys are blob
// names inside the configured container.
type Store struct {
	log       *logger.Logger
	client    *azblob.Client
	container string
	hosts     []string
	poll      time.Duration
	timeout   time.Duration
}

var errCopyPending = errors.New("blob copy pending")

func New(log *logger.Logger, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.ConnectionString) == "" {
		return nil, fmt.Errorf("missing azure storage connection string")
	}
	if strings.TrimSpace(cfg.Container) == "" {
		cfg.Container = "edudron-media"
	}
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: 3,
				RetryDelay: 500 * time.Millisecond,
				TryTimeout: time.Minute,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("azure blob client: %w", err)
	}
	s := &Store{
		log:       log.With("service", "AzureMediaStore"),
		client:    client,
		container: cfg.Container,
		poll:      cfg.CopyPollInterval,
		timeout:   cfg.CopyTimeout,
	}
	if s.poll <= 0 {
		s.poll = time.Second
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Minute
	}
	s.hosts = append([]string{DefaultHostSuffix}, cfg.Hosts...)
	if u, err := url.Parse(client.URL()); err == nil && u.Host != "" {
		s.hosts = append(s.hosts, u.Host)
	}
	s.log.Info("Azure media store initialized", "container", s.container, "account_url", client.URL())
	return s, nil
}

func (s *Store) Name() string { return "azure" }

func (s *Store) blob(container, key string) *blob.Client {
	return s.client.ServiceClient().NewContainerClient(container).NewBlobClient(key)
}

func (s *Store) URL(key string) string {
	return s.blob(s.container, key).URL()
}

func (s *Store) Owns(rawURL string) bool {
	return ownsURL(s.hosts, rawURL)
}

// KeyFromURL returns the blob name of rawURL, without its container.
func (s *Store) KeyFromURL(rawURL string) (string, error) {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	return ref.Name, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.blob(s.container, key).GetProperties(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// CopyFromURL starts a server-side copy of srcURL into dstKey of the configured
// container and waits for it to leave the pending state.
func (s *Store) CopyFromURL(ctx context.Context, srcURL, dstKey string) error {
	dst := s.blob(s.container, dstKey)
	resp, err := dst.StartCopyFromURL(ctx, srcURL, nil)
	if err != nil {
		return fmt.Errorf("start copy %s->%s: %w", srcURL, dstKey, err)
	}
	if resp.CopyStatus != nil && *resp.CopyStatus == blob.CopyStatusTypeSuccess {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	attempts := uint(s.timeout/s.poll) + 1
	err = retry.Do(
		func() error {
			props, err := dst.GetProperties(ctx, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if props.CopyStatus == nil {
				return nil
			}
			switch *props.CopyStatus {
			case blob.CopyStatusTypeSuccess:
				return nil
			case blob.CopyStatusTypePending:
				return errCopyPending
			default:
				desc := ""
				if props.CopyStatusDescription != nil {
					desc = *props.CopyStatusDescription
				}
				return retry.Unrecoverable(fmt.Errorf("copy status %s: %s", *props.CopyStatus, desc))
			}
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.poll),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errCopyPending) }),
	)
	if err != nil {
		return fmt.Errorf("copy %s->%s: %w", srcURL, dstKey, err)
	}
	return nil
}
