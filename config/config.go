package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/reelboard/pkg/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Observability ObservabilityConfig `yaml:"observability"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Video         VideoConfig         `yaml:"video"`
	ContentGen    ContentGenConfig    `yaml:"content_gen"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL      string `yaml:"url"`
	NKeySeed string `yaml:"nkey_seed"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LeaderboardConfig tunes the leaderboard batch job.
type LeaderboardConfig struct {
	TopN                 int           `yaml:"top_n"`
	ScheduleInterval     time.Duration `yaml:"schedule_interval"`
	JobTimeout           time.Duration `yaml:"job_timeout"`
	RetainVersions       int           `yaml:"retain_versions"`
	ReducerViewsTieBreak bool          `yaml:"reducer_views_tiebreak"`
}

// VideoConfig holds upload and feed limits.
type VideoConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	FeedPageSize   int   `yaml:"feed_page_size"`
}

// ContentGenConfig points at the external text generation service.
type ContentGenConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	TokenURL          string        `yaml:"token_url"`
	ClientID          string        `yaml:"client_id"`
	ClientSecret      string        `yaml:"client_secret"`
	Scopes            []string      `yaml:"scopes"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

const (
	DefaultHTTPAddress        = ":8080"
	DefaultTopN               = 10
	DefaultScheduleInterval   = 10 * time.Minute
	DefaultJobTimeout         = 30 * time.Second
	DefaultRetainVersions     = 3
	DefaultMaxUploadBytes     = 100 << 20
	DefaultFeedPageSize       = 50
	DefaultJWTTTL             = 24 * time.Hour
	DefaultContentGenRPM      = 30
	DefaultContentGenTimeout  = 20 * time.Second
	DefaultHTTPReadTimeout    = 15 * time.Second
	DefaultHTTPWriteTimeout   = 30 * time.Second
	defaultObservabilityLevel = "info"
)

// LoadConfig loads the configuration from a YAML file. A missing file falls
// back to environment variables only. A .env file in the working directory
// is loaded first when present.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		cfg.JWT.Audience = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %w", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("LEADERBOARD_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_TOP_N value: %w", err)
		}
		cfg.Leaderboard.TopN = n
	}
	if v := os.Getenv("LEADERBOARD_SCHEDULE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_SCHEDULE_INTERVAL value: %w", err)
		}
		cfg.Leaderboard.ScheduleInterval = d
	}
	if v := os.Getenv("LEADERBOARD_JOB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_JOB_TIMEOUT value: %w", err)
		}
		cfg.Leaderboard.JobTimeout = d
	}
	if v := os.Getenv("LEADERBOARD_VIEWS_TIEBREAK"); v != "" {
		cfg.Leaderboard.ReducerViewsTieBreak = v == "true"
	}
	if v := os.Getenv("CONTENT_GEN_ENDPOINT"); v != "" {
		cfg.ContentGen.Endpoint = v
	}
	if v := os.Getenv("CONTENT_GEN_TOKEN_URL"); v != "" {
		cfg.ContentGen.TokenURL = v
	}
	if v := os.Getenv("CONTENT_GEN_CLIENT_ID"); v != "" {
		cfg.ContentGen.ClientID = v
	}
	if v := os.Getenv("CONTENT_GEN_CLIENT_SECRET"); v != "" {
		cfg.ContentGen.ClientSecret = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = DefaultHTTPAddress
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = DefaultHTTPReadTimeout
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = DefaultHTTPWriteTimeout
	}
	if c.JWT.DefaultTTL <= 0 {
		c.JWT.DefaultTTL = DefaultJWTTTL
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = defaultObservabilityLevel
	}
	if c.Leaderboard.TopN <= 0 {
		c.Leaderboard.TopN = DefaultTopN
	}
	if c.Leaderboard.ScheduleInterval <= 0 {
		c.Leaderboard.ScheduleInterval = DefaultScheduleInterval
	}
	if c.Leaderboard.JobTimeout <= 0 {
		c.Leaderboard.JobTimeout = DefaultJobTimeout
	}
	if c.Leaderboard.RetainVersions <= 0 {
		c.Leaderboard.RetainVersions = DefaultRetainVersions
	}
	if c.Video.MaxUploadBytes <= 0 {
		c.Video.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Video.FeedPageSize <= 0 {
		c.Video.FeedPageSize = DefaultFeedPageSize
	}
	if c.ContentGen.RequestsPerMinute <= 0 {
		c.ContentGen.RequestsPerMinute = DefaultContentGenRPM
	}
	if c.ContentGen.Timeout <= 0 {
		c.ContentGen.Timeout = DefaultContentGenTimeout
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "reelboard",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
