package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sdko-org/vertical-padding/internal/database"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/runlog"
	"github.com/sdko-org/vertical-padding/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
)

type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TLSSelfSigned   bool
	TLSPort         string
	RateLimit       int
	RateLimitWindow time.Duration

	// TrustProxyHeaders keys rate limiting on X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	LogLevel  string
	LogFormat string

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string

	GeocoderProvider string
	NominatimURL     string
	OverpassURL      string
	MapboxToken      string
	UpstreamTimeout  time.Duration
	UserAgent        string

	RunLogBackend  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
	KafkaBrokers   []string
	KafkaRunsTopic string

	Padding padding.Constants
}

// Load reads configuration from the environment. Padding constants start from
// the defaults, are overlaid by PADDING_CONFIG_FILE when set, and then by the
// individual PAD_* variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		TLSSelfSigned:   getEnvBool("TLS_SELF_SIGNED", false),
		TLSPort:         getEnv("TLS_PORT", "3443"),
		RateLimit:       getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PostgresUser:     getEnv("POSTGRES_USER", "padstop"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "padstop"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		GeocoderProvider: strings.ToLower(getEnv("GEOCODER_PROVIDER", GeocoderNominatim)),
		NominatimURL:     getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OverpassURL:      getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		MapboxToken:      os.Getenv("MAPBOX_TOKEN"),
		UpstreamTimeout:  getEnvDuration("UPSTREAM_TIMEOUT", 5*time.Second),
		UserAgent:        getEnv("USER_AGENT", "padstop/1.0"),

		RunLogBackend:  strings.ToLower(getEnv("RUN_LOG_BACKEND", runlog.BackendPostgres)),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Prefix:       getEnv("S3_RUNS_PREFIX", "runs"),
		KafkaBrokers:   getEnvList("KAFKA_BROKERS"),
		KafkaRunsTopic: getEnv("KAFKA_RUNS_TOPIC", "padding-runs"),

		Padding: padding.DefaultConstants(),
	}

	if path := os.Getenv("PADDING_CONFIG_FILE"); path != "" {
		if err := loadPaddingFile(path, &cfg.Padding); err != nil {
			return nil, err
		}
	}
	cfg.Padding.Base = getEnvInt("PAD_BASE_SEC", cfg.Padding.Base)
	cfg.Padding.PerFloor = getEnvInt("PAD_PER_FLOOR_SEC", cfg.Padding.PerFloor)
	cfg.Padding.OfficeBonus = getEnvInt("PAD_OFFICE_BONUS_SEC", cfg.Padding.OfficeBonus)
	cfg.Padding.PeakBonus = getEnvInt("PAD_PEAK_BONUS_SEC", cfg.Padding.PeakBonus)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.GeocoderProvider {
	case GeocoderNominatim:
	case GeocoderMapbox:
		if c.MapboxToken == "" {
			return fmt.Errorf("MAPBOX_TOKEN is required when GEOCODER_PROVIDER=%s", GeocoderMapbox)
		}
	default:
		return fmt.Errorf("unknown GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	switch c.RunLogBackend {
	case runlog.BackendPostgres, runlog.BackendMemory:
	case runlog.BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when RUN_LOG_BACKEND=%s", runlog.BackendS3)
		}
	case runlog.BackendKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when RUN_LOG_BACKEND=%s", runlog.BackendKafka)
		}
	default:
		return fmt.Errorf("unknown RUN_LOG_BACKEND %q", c.RunLogBackend)
	}

	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_LIMIT_WINDOW must be positive")
	}
	return c.Padding.Validate()
}

func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		DBName:   c.PostgresDatabase,
		SSLMode:  c.PostgresSSLMode,
	}
}

func (c *Config) S3() storage.S3Config {
	return storage.S3Config{
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}
}

// loadPaddingFile overlays the constants present in a YAML file onto dst.
func loadPaddingFile(path string, dst *padding.Constants) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read padding config: %w", err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse padding config %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
