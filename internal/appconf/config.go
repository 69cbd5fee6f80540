// Package appconf loads the application configuration. Sources are applied
// in order, each overriding the last: built-in defaults, a YAML file,
// environment variables (optionally from .env files) and explicit flags.
package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://telematics.oasa.gr/api/"

type UpstreamConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	UserAgent string `yaml:"userAgent" validate:"required"`
	// RatePerSecond caps outbound calls; zero disables the limiter.
	RatePerSecond float64 `yaml:"ratePerSecond" validate:"gte=0"`
	Burst         int     `yaml:"burst" validate:"gte=0"`
}

type TimeoutConfig struct {
	Lines    time.Duration `yaml:"lines" validate:"gt=0"`
	Stops    time.Duration `yaml:"stops" validate:"gt=0"`
	Geometry time.Duration `yaml:"geometry" validate:"gt=0"`
	Realtime time.Duration `yaml:"realtime" validate:"gt=0"`
	Proxy    time.Duration `yaml:"proxy" validate:"gt=0"`
}

type CacheConfig struct {
	LinesTTL    time.Duration `yaml:"linesTTL" validate:"gt=0"`
	GeometryTTL time.Duration `yaml:"geometryTTL" validate:"gt=0"`
	// Warm enables the background lines refresher.
	Warm           bool          `yaml:"warm"`
	WarmInterval   time.Duration `yaml:"warmInterval" validate:"gt=0"`
	WarmMaxElapsed time.Duration `yaml:"warmMaxElapsed" validate:"gte=0"`
}

type TrackingConfig struct {
	Interval            time.Duration `yaml:"interval" validate:"gt=0"`
	SnapThresholdMeters float64       `yaml:"snapThresholdMeters" validate:"gt=0"`
}

type Config struct {
	Port int         `yaml:"port" validate:"min=1,max=65535"`
	Env  Environment `yaml:"env" validate:"oneof=0 1 2"`
	// RateLimit is the number of requests per second allowed per client IP.
	RateLimit      int      `yaml:"rateLimit" validate:"gte=0"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,required"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Cache    CacheConfig    `yaml:"cache"`
	Tracking TrackingConfig `yaml:"tracking"`
}

func Default() Config {
	return Config{
		Port:           4000,
		Env:            Development,
		RateLimit:      100,
		AllowedOrigins: []string{"*"},
		Upstream: UpstreamConfig{
			BaseURL:       DefaultBaseURL,
			UserAgent:     "OASA-Proxy/1.0",
			RatePerSecond: 10,
			Burst:         20,
		},
		Timeouts: TimeoutConfig{
			Lines:    30 * time.Second,
			Stops:    12 * time.Second,
			Geometry: 15 * time.Second,
			Realtime: 15 * time.Second,
			Proxy:    15 * time.Second,
		},
		Cache: CacheConfig{
			LinesTTL:       time.Hour,
			GeometryTTL:    6 * time.Hour,
			Warm:           true,
			WarmInterval:   time.Hour,
			WarmMaxElapsed: 5 * time.Minute,
		},
		Tracking: TrackingConfig{
			Interval:            20 * time.Second,
			SnapThresholdMeters: 120,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when empty) and the environment as seen through lookup.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("BUSRADAR_ENV"); ok && v != "" {
		env, err := ParseEnvironment(v)
		if err != nil {
			return fmt.Errorf("BUSRADAR_ENV: %w", err)
		}
		c.Env = env
	}
	if v, ok := lookup("OASA_BASE_URL"); ok && v != "" {
		c.Upstream.BaseURL = v
	}
	if v, ok := lookup("BUSRADAR_ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = SplitList(v)
	}
	if v, ok := lookup("BUSRADAR_RATE_LIMIT"); ok && v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BUSRADAR_RATE_LIMIT: %w", err)
		}
		c.RateLimit = limit
	}
	if v, ok := lookup("BUSRADAR_POLL_INTERVAL"); ok && v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BUSRADAR_POLL_INTERVAL: %w", err)
		}
		c.Tracking.Interval = interval
	}
	return nil
}

// Validate checks field ranges and formats.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
