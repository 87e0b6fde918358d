package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrMissingMongoURL     = errors.New("MONGO_URL environment variable is required")
	ErrMissingKafkaBrokers = errors.New("KAFKA_BROKERS environment variable is required")
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	// MetricsPort serves /metrics for binaries without an HTTP API.
	MetricsPort string

	MongoURL      string
	MongoDatabase string

	KafkaBrokers []string

	TracingEnabled bool
	OTLPEndpoint   string
}

// Load reads the process environment, first merging a .env file from the
// working directory when one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8000"),
		MetricsPort:    getEnv("METRICS_PORT", "9464"),
		MongoURL:       os.Getenv("MONGO_URL"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "ecommerce"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	return cfg, nil
}

func (c Config) RequireMongo() error {
	if c.MongoURL == "" {
		return ErrMissingMongoURL
	}
	return nil
}

func (c Config) RequireKafka() error {
	if len(c.KafkaBrokers) == 0 {
		return ErrMissingKafkaBrokers
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return b
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
