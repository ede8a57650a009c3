package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// MediaBucketConfig describes the bucket that holds course media.
type MediaBucketConfig struct {
	Mode         StorageMode `yaml:"mode"`
	EmulatorHost string      `yaml:"emulator_host"`
	Bucket       string      `yaml:"bucket"`
	// CDNDomain, when set, is the host media URLs are served from.
	CDNDomain string `yaml:"cdn_domain"`
	// PublicBaseURL overrides https://storage.googleapis.com for URL building.
	PublicBaseURL string `yaml:"public_base_url"`
}

type ConfigError struct {
	Field string
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid media bucket config: %s is required", e.Field)
	}
	return fmt.Sprintf("invalid media bucket config: %s=%q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// Normalize fills the mode (emulator when an emulator host is set) and trims
// trailing slashes, then validates.
func (c MediaBucketConfig) Normalize() (MediaBucketConfig, error) {
	c.EmulatorHost = strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.CDNDomain = strings.Trim(strings.TrimSpace(c.CDNDomain), "/")
	c.Bucket = strings.TrimSpace(c.Bucket)
	switch StorageMode(strings.ToLower(strings.TrimSpace(string(c.Mode)))) {
	case "":
		c.Mode = StorageModeGCS
		if c.EmulatorHost != "" {
			c.Mode = StorageModeGCSEmulator
		}
	case StorageModeGCS:
		c.Mode = StorageModeGCS
	case StorageModeGCSEmulator:
		c.Mode = StorageModeGCSEmulator
	default:
		return c, &ConfigError{Field: "mode", Value: string(c.Mode)}
	}
	if c.Bucket == "" {
		return c, &ConfigError{Field: "bucket"}
	}
	if c.Mode == StorageModeGCSEmulator {
		if c.EmulatorHost == "" {
			return c, &ConfigError{Field: "emulator_host"}
		}
		if err := requireAbsoluteURL(c.EmulatorHost); err != nil {
			return c, &ConfigError{Field: "emulator_host", Value: c.EmulatorHost, Cause: err}
		}
		if c.PublicBaseURL == "" {
			c.PublicBaseURL = c.EmulatorHost
		}
	}
	if c.PublicBaseURL != "" {
		if err := requireAbsoluteURL(c.PublicBaseURL); err != nil {
			return c, &ConfigError{Field: "public_base_url", Value: c.PublicBaseURL, Cause: err}
		}
	}
	return c, nil
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("expected absolute URL like http://fake-gcs:4443")
	}
	return nil
}
