package gcp

import (
	"errors"
	"testing"
)

func TestNormalizeDefaultsAndEmulator(t *testing.T) {
	cfg, err := MediaBucketConfig{Bucket: "media"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Mode != StorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", StorageModeGCS, cfg.Mode)
	}

	cfg, err = MediaBucketConfig{Bucket: "media", EmulatorHost: "http://fake-gcs:4443/"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize emulator: %v", err)
	}
	if cfg.Mode != StorageModeGCSEmulator || cfg.PublicBaseURL != "http://fake-gcs:4443" {
		t.Fatalf("emulator: got mode=%q base=%q", cfg.Mode, cfg.PublicBaseURL)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []MediaBucketConfig{
		{},
		{Bucket: "media", Mode: "s3"},
		{Bucket: "media", Mode: StorageModeGCSEmulator},
		{Bucket: "media", EmulatorHost: "fake-gcs"},
	}
	for _, c := range cases {
		_, err := c.Normalize()
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("Normalize(%+v): want ConfigError got=%v", c, err)
		}
	}
}

func TestURLAndKeyFromURLRoundTrip(t *testing.T) {
	cases := []MediaBucketConfig{
		{Bucket: "media"},
		{Bucket: "media", CDNDomain: "cdn.example.com"},
		{Bucket: "media", EmulatorHost: "http://localhost:4443"},
	}
	for _, c := range cases {
		cfg, err := c.Normalize()
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		b := &MediaBucket{cfg: cfg}
		u := b.URL("t2/courses/c9/intro video.mp4")
		key, err := b.KeyFromURL(u)
		if err != nil {
			t.Fatalf("KeyFromURL(%q): %v", u, err)
		}
		if key != "t2/courses/c9/intro video.mp4" {
			t.Fatalf("KeyFromURL: want=%q got=%q", "t2/courses/c9/intro video.mp4", key)
		}
	}
}

func TestOwnsRejectsForeignURLs(t *testing.T) {
	cfg, _ := MediaBucketConfig{Bucket: "media"}.Normalize()
	b := &MediaBucket{cfg: cfg}
	for _, u := range []string{
		"https://storage.googleapis.com/other/t1/a.png",
		"https://acct.blob.core.windows.net/media/t1/a.png",
		"not a url",
		"https://storage.googleapis.com/media/",
	} {
		if b.Owns(u) {
			t.Fatalf("Owns(%q): want=false", u)
		}
	}
	if !b.Owns("https://storage.googleapis.com/media/t1/a.png") {
		t.Fatalf("Owns: want=true")
	}
}
