package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

var ErrMissingMongoURI = errors.New("MONGODB_URI is not set")

type Config struct {
	Env             string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer      HTTPServer    `yaml:"http_server"`
	Mongo           Mongo         `yaml:"mongodb"`
	Images          ImageStore    `yaml:"images"`
	Mailer          Mailer        `yaml:"mailer"`
	SimilarCacheTTL time.Duration `yaml:"similar_cache_ttl" env:"SIMILAR_CACHE_TTL" env-default:"1h"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout        time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	MaxUploadSize  int64         `yaml:"max_upload_size" env:"HTTP_MAX_UPLOAD_SIZE" env-default:"10485760"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type Mongo struct {
	URI            string        `yaml:"uri" env:"MONGODB_URI" env-required:"true"`
	Database       string        `yaml:"database" env:"MONGODB_DATABASE" env-default:"dev-events"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGODB_CONNECT_TIMEOUT" env-default:"10s"`
}

// ImageStore points at an S3 compatible bucket. Endpoint is only needed for
// non-AWS providers; PublicBaseURL overrides the URL handed back to clients.
type ImageStore struct {
	Bucket          string `yaml:"bucket" env:"IMAGES_BUCKET"`
	Region          string `yaml:"region" env:"IMAGES_REGION" env-default:"us-east-1"`
	AccessKeyID     string `yaml:"access_key_id" env:"IMAGES_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"IMAGES_SECRET_ACCESS_KEY"`
	Endpoint        string `yaml:"endpoint" env:"IMAGES_ENDPOINT"`
	PublicBaseURL   string `yaml:"public_base_url" env:"IMAGES_PUBLIC_BASE_URL"`
	Folder          string `yaml:"folder" env:"IMAGES_FOLDER" env-default:"DevEvents"`
}

type Mailer struct {
	Provider    string `yaml:"provider" env:"MAILER_PROVIDER" env-default:"noop"`
	FromAddress string `yaml:"from_address" env:"MAILER_FROM_ADDRESS"`
	FromName    string `yaml:"from_name" env:"MAILER_FROM_NAME" env-default:"DevEvents"`
	SES         SES    `yaml:"ses"`
}

type SES struct {
	Region          string `yaml:"region" env:"MAILER_SES_REGION" env-default:"us-east-1"`
	AccessKeyID     string `yaml:"access_key_id" env:"MAILER_SES_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MAILER_SES_SECRET_ACCESS_KEY"`
}

// Load reads a .env file when one is present, then either the YAML file named
// by CONFIG_PATH (environment overrides it) or the environment alone.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	if cfg.Mongo.URI == "" {
		return nil, ErrMissingMongoURI
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}

// Verbose reports whether internal error details may be sent to clients.
func (c *Config) Verbose() bool {
	return c.Env != EnvProd
}
