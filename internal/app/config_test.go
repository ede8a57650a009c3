package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coursejobs.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port: want=8080 got=%d", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr: want=localhost:6379 got=%q", cfg.Redis.Addr)
	}
	if cfg.Blob.Backend != BlobBackendNone {
		t.Fatalf("blob backend: want=%q got=%q", BlobBackendNone, cfg.Blob.Backend)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Fatalf("access ttl: want=%v got=%v", time.Hour, cfg.Auth.AccessTokenTTL)
	}
	if cfg.Server.Address() != ":8080" {
		t.Fatalf("address: want=:8080 got=%q", cfg.Server.Address())
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  cors_origins: ["https://app.example.com"]
redis:
  addr: redis:6379
  key_prefix: "cj:"
dispatcher:
  interval: 5s
blob:
  backend: azure
  azure:
    container: media
auth:
  jwt_secret: from-file
`)
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("DISPATCH_INTERVAL", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port: want=9000 got=%d", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Fatalf("redis addr: want=cache:6380 got=%q", cfg.Redis.Addr)
	}
	if cfg.Redis.KeyPrefix != "cj:" {
		t.Fatalf("key prefix: want=cj: got=%q", cfg.Redis.KeyPrefix)
	}
	if cfg.Dispatcher.Interval != 3*time.Second {
		t.Fatalf("interval: want=3s got=%v", cfg.Dispatcher.Interval)
	}
	if cfg.Blob.Backend != BlobBackendAzure || cfg.Blob.Azure.Container != "media" {
		t.Fatalf("blob: want=azure/media got=%s/%s", cfg.Blob.Backend, cfg.Blob.Azure.Container)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors origins: got=%v", cfg.Server.CORSOrigins)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("jwt secret: want=from-file got=%q", cfg.Auth.JWTSecret)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error without jwt secret")
	}

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("BLOB_BACKEND", "s3")
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for unknown blob backend")
	}
}
