package config

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
	StorageS3       = "s3"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server    ServerConfig
	Auth      AuthConfig
	Processor ProcessorConfig
	Storage   StorageConfig
	Supabase  SupabaseConfig `envPrefix:"SUPABASE_"`
	S3        S3Config       `envPrefix:"S3_"`
	Redis     RedisConfig    `envPrefix:"REDIS_"`
	RabbitMQ  RabbitMQConfig `envPrefix:"RABBITMQ_"`
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	// PublicBaseURL prefixes relative artifact URLs; the request origin is used when empty.
	PublicBaseURL string   `env:"PUBLIC_BASE_URL"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	EnablePprof   bool     `env:"ENABLE_PPROF" envDefault:"false"`
}

type AuthConfig struct {
	APIKeys   []string `env:"API_KEYS" envSeparator:"," envDefault:"demo-api-key-123,test-api-key-456"`
	RateLimit int      `env:"RATE_LIMIT" envDefault:"100"`
	Backend   string   `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
}

type ProcessorConfig struct {
	Workers int           `env:"PROCESSOR_WORKERS"`
	Timeout time.Duration `env:"PROCESSOR_TIMEOUT" envDefault:"30s"`
}

type StorageConfig struct {
	Backend      string   `env:"STORAGE_BACKEND" envDefault:"local"`
	MaxFileSize  int64    `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10MB
	AllowedTypes []string `env:"ALLOWED_TYPES" envSeparator:"," envDefault:"image/jpeg,image/png,image/webp,image/gif"`
	UploadPath   string   `env:"UPLOAD_PATH" envDefault:"./public/outputs"`
	PublicPath   string   `env:"PUBLIC_PATH" envDefault:"/outputs"`
}

type SupabaseConfig struct {
	URL    string `env:"URL"`
	KEY    string `env:"KEY"`
	BUCKET string `env:"BUCKET"`
}

type S3Config struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"image-toolkit"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	// PublicURL is the externally reachable base for object URLs, e.g. a CDN in front of the bucket.
	PublicURL string `env:"PUBLIC_URL"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type RabbitMQConfig struct {
	// URL is optional; artifact events are not published when it is empty.
	URL   string `env:"URL"`
	Queue string `env:"QUEUE" envDefault:"image_artifacts"`
	// Consume starts an in-process consumer that logs every artifact event.
	Consume bool `env:"CONSUME" envDefault:"false"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Processor.Workers <= 0 {
		cfg.Processor.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.Auth.RateLimit)
	}
	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("API_KEYS must list at least one key")
	}
	if c.Storage.MaxFileSize < 1 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Storage.MaxFileSize)
	}

	switch c.Storage.Backend {
	case StorageLocal, StorageSupabase, StorageS3:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.Auth.Backend {
	case RateLimitMemory, RateLimitRedis:
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.Auth.Backend)
	}
	return nil
}
