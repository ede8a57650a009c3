package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	yamlenv "github.com/ifuryst/go-yaml-env"

	"github.com/yungbote/coursejobs/internal/data/db"
	"github.com/yungbote/coursejobs/internal/jobs/dispatcher"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/azureblob"
	"github.com/yungbote/coursejobs/internal/platform/envutil"
	"github.com/yungbote/coursejobs/internal/platform/gcp"
	"github.com/yungbote/coursejobs/internal/platform/openai"
)

type BlobBackend string

const (
	BlobBackendNone  BlobBackend = "none"
	BlobBackendAzure BlobBackend = "azure"
	BlobBackendGCS   BlobBackend = "gcs"
)

type Config struct {
	Server     ServerConfig             `yaml:"server"`
	Log        LogConfig                `yaml:"log"`
	Redis      RedisConfig              `yaml:"redis"`
	Postgres   PostgresConfig           `yaml:"postgres"`
	Jobs       JobsConfig               `yaml:"jobs"`
	Dispatcher dispatcher.Options       `yaml:"dispatcher"`
	Blob       BlobConfig               `yaml:"blob"`
	OpenAI     openai.Config            `yaml:"openai"`
	Otel       observability.OtelConfig `yaml:"otel"`
	Auth       AuthConfig               `yaml:"auth"`
	Metrics    MetricsConfig            `yaml:"metrics"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

func (s ServerConfig) Address() string { return fmt.Sprintf(":%d", s.Port) }

type LogConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type PostgresConfig struct {
	DSN         string `yaml:"dsn"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

func (p PostgresConfig) connection() db.PostgresConfig {
	return db.PostgresConfig{
		DSN:      p.DSN,
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Name:     p.Name,
	}
}

type JobsConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	PayloadTTL time.Duration `yaml:"payload_ttl"`
}

type BlobConfig struct {
	Backend BlobBackend           `yaml:"backend"`
	Azure   azureblob.Config      `yaml:"azure"`
	GCS     gcp.MediaBucketConfig `yaml:"gcs"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig reads path when it exists, then lets environment variables
// override individual fields.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path = strings.TrimSpace(path); path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			loaded, err := yamlenv.LoadConfig[Config](path)
			if err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
			cfg = loaded
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = envutil.Int("PORT", c.Server.Port)
	if origins := envutil.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.Log.Mode = envutil.String("LOG_MODE", c.Log.Mode)
	c.Log.File = envutil.String("LOG_FILE", c.Log.File)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)
	c.Redis.KeyPrefix = envutil.String("REDIS_KEY_PREFIX", c.Redis.KeyPrefix)

	c.Postgres.DSN = envutil.String("POSTGRES_DSN", c.Postgres.DSN)
	c.Postgres.Host = envutil.String("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = envutil.String("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = envutil.String("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = envutil.String("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.Name = envutil.String("POSTGRES_NAME", c.Postgres.Name)
	c.Postgres.AutoMigrate = envutil.Bool("POSTGRES_AUTO_MIGRATE", c.Postgres.AutoMigrate)

	c.Jobs.TTL = envutil.Duration("JOB_TTL", c.Jobs.TTL)
	c.Jobs.PayloadTTL = envutil.Duration("JOB_PAYLOAD_TTL", c.Jobs.PayloadTTL)
	c.Dispatcher.Interval = envutil.Duration("DISPATCH_INTERVAL", c.Dispatcher.Interval)
	c.Dispatcher.DequeueTimeout = envutil.Duration("DEQUEUE_TIMEOUT", c.Dispatcher.DequeueTimeout)
	c.Dispatcher.Stagger = envutil.Duration("DISPATCH_STAGGER", c.Dispatcher.Stagger)

	c.Blob.Backend = BlobBackend(strings.ToLower(envutil.String("BLOB_BACKEND", string(c.Blob.Backend))))
	c.Blob.Azure.ConnectionString = envutil.String("AZURE_STORAGE_CONNECTION_STRING", c.Blob.Azure.ConnectionString)
	c.Blob.Azure.Container = envutil.String("AZURE_STORAGE_CONTAINER", c.Blob.Azure.Container)
	c.Blob.GCS.Bucket = envutil.String("MEDIA_GCS_BUCKET_NAME", c.Blob.GCS.Bucket)
	c.Blob.GCS.Mode = gcp.StorageMode(envutil.String("OBJECT_STORAGE_MODE", string(c.Blob.GCS.Mode)))
	c.Blob.GCS.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", c.Blob.GCS.EmulatorHost)
	c.Blob.GCS.CDNDomain = envutil.String("MEDIA_CDN_DOMAIN", c.Blob.GCS.CDNDomain)

	c.OpenAI.APIKey = envutil.String("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = envutil.String("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.Model = envutil.String("OPENAI_MODEL", c.OpenAI.Model)
	c.OpenAI.RPS = envutil.Float("OPENAI_RPS", c.OpenAI.RPS)
	c.OpenAI.Timeout = envutil.Duration("OPENAI_TIMEOUT", c.OpenAI.Timeout)
	c.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", c.OpenAI.MaxRetries)

	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
	c.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", c.Otel.Environment)
	c.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", c.Otel.SampleRatio)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.Otel.Headers)
	c.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.Otel.Insecure)

	c.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", c.Auth.JWTSecret)
	c.Auth.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)

	c.Metrics.Addr = envutil.String("METRICS_ADDR", c.Metrics.Addr)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "development"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Postgres.DSN == "" {
		if c.Postgres.Host == "" {
			c.Postgres.Host = "localhost"
		}
		if c.Postgres.Port == "" {
			c.Postgres.Port = "5432"
		}
	}
	if c.Otel.ServiceName == "" {
		c.Otel.ServiceName = "coursejobs"
	}
	if c.Blob.Backend == "" {
		c.Blob.Backend = BlobBackendNone
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = time.Hour
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
}

func (c *Config) Validate() error {
	switch c.Blob.Backend {
	case BlobBackendNone, BlobBackendAzure, BlobBackendGCS:
	default:
		return fmt.Errorf("unknown blob backend %q", c.Blob.Backend)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("missing JWT_SECRET_KEY")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
