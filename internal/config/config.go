package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported story store backends.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMinIO    = "minio"
	StoreDriverMemory   = "memory"
)

// Nested structs are read under their parent's prefix (DB_HOST, MINIO_BUCKET).
// Keep their fields free of envconfig tags: envconfig retries a tagged field under
// its bare name, so an unset DB_PORT would pick up PORT.

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string `default:"5432"`
	User               string
	Password           string
	Name               string
	SSLMode            string `default:"disable"`
	ApplicationName    string `split_words:"true" default:"storyapi"`
	MaxOpenConns       int    `split_words:"true" default:"10"`
	MaxIdleConns       int    `split_words:"true" default:"5"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"300"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `default:"mongodb://localhost:27017"`
	Database   string `default:"storyapi"`
	Collection string `default:"stories"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string `split_words:"true"`
	SecretKey string `split_words:"true"`
	Bucket    string
	UseSSL    bool `split_words:"true" default:"false"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level    string `default:"info"`
	Encoding string `default:"json"`
}

// OTelConfig mirrors the standard OTEL_* tracing variables.
type OTelConfig struct {
	SDKDisabled                bool   `split_words:"true"`
	ServiceName                string `split_words:"true" default:"storyapi"`
	ExporterOTLPProtocol       string `split_words:"true" default:"grpc"`
	ExporterOTLPEndpoint       string `split_words:"true"`
	ExporterOTLPTracesEndpoint string `split_words:"true"`
	TracesSampler              string `split_words:"true" default:"parentbased_traceidratio"`
	TracesSamplerArg           string `split_words:"true" default:"1.0"`
}

// TracesEndpoint is the OTLP traces endpoint, preferring the traces-specific key.
func (c OTelConfig) TracesEndpoint() string {
	if c.ExporterOTLPTracesEndpoint != "" {
		return c.ExporterOTLPTracesEndpoint
	}
	return c.ExporterOTLPEndpoint
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the public host:port advertised in the swagger document.
	AppHost          string         `envconfig:"APP_HOST" default:"localhost:8080"`
	Port             string         `envconfig:"PORT" default:"8080"`
	CORSAllowOrigins string         `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173"`
	StoreDriver      string         `envconfig:"STORE_DRIVER" default:"postgres"`
	Log              LogConfig      `envconfig:"LOG"`
	Database         DatabaseConfig `envconfig:"DB"`
	Mongo            MongoConfig    `envconfig:"MONGO"`
	MinIO            MinIOConfig    `envconfig:"MINIO"`
	OTel             OTelConfig     `envconfig:"OTEL"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMinIO, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("load config: unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return &cfg, nil
}
