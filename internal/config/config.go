// Package config loads service configuration from a YAML file, an optional
// .env file and VOTECARD_* environment overrides.
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
)

// IDPlaceholder is substituted with the identifier in upstream URL templates.
const IDPlaceholder = "{id}"

// Duration wraps time.Duration so YAML can carry values like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

type UpstreamConfig struct {
	ContestantURL string   `yaml:"contestant_url"`
	ContestURL    string   `yaml:"contest_url"`
	Timeout       Duration `yaml:"timeout"`
	MaxBytes      int64    `yaml:"max_bytes"`
}

type AssetsConfig struct {
	Template  string `yaml:"template"`
	NameFont  string `yaml:"name_font"`
	TitleFont string `yaml:"title_font"`
	RosterCSV string `yaml:"roster_csv"`
}

type PhotoConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

// Config holds all service configuration.
type Config struct {
	Port      int            `yaml:"port"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"`
	Upstream  UpstreamConfig `yaml:"upstream"`
	Assets    AssetsConfig   `yaml:"assets"`
	Photo     PhotoConfig    `yaml:"photo"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Port:      8080,
		LogLevel:  "info",
		LogFormat: "text",
		Upstream: UpstreamConfig{
			ContestantURL: "https://khalti.com/api/v2/vcontestant/{id}/",
			ContestURL:    "https://khalti.com/api/v2/vcontest/{id}/",
			Timeout:       Duration{10 * time.Second},
			MaxBytes:      20 << 20,
		},
		Assets: AssetsConfig{
			Template:  "vote.png",
			NameFont:  "Poppins-SemiBold.ttf",
			TitleFont: "Poppins-Regular.ttf",
		},
		Photo: PhotoConfig{JPEGQuality: 50},
	}
}

// Load reads an optional .env, then the YAML file at path (a missing file
// keeps defaults), then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("VOTECARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("VOTECARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("VOTECARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("VOTECARD_CONTESTANT_URL"); v != "" {
		cfg.Upstream.ContestantURL = v
	}
	if v := os.Getenv("VOTECARD_CONTEST_URL"); v != "" {
		cfg.Upstream.ContestURL = v
	}
	if v := os.Getenv("VOTECARD_UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("VOTECARD_TEMPLATE"); v != "" {
		cfg.Assets.Template = v
	}
	if v := os.Getenv("VOTECARD_NAME_FONT"); v != "" {
		cfg.Assets.NameFont = v
	}
	if v := os.Getenv("VOTECARD_TITLE_FONT"); v != "" {
		cfg.Assets.TitleFont = v
	}
	if v := os.Getenv("VOTECARD_ROSTER_CSV"); v != "" {
		cfg.Assets.RosterCSV = v
	}
	if v := os.Getenv("VOTECARD_JPEG_QUALITY"); v != "" {
		if q, err := strconv.Atoi(v); err == nil {
			cfg.Photo.JPEGQuality = q
		}
	}
}

// Validate checks that the configuration can serve requests.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if !strings.Contains(c.Upstream.ContestantURL, IDPlaceholder) {
		return fmt.Errorf("upstream.contestant_url must contain %s", IDPlaceholder)
	}
	if c.Upstream.ContestURL != "" && !strings.Contains(c.Upstream.ContestURL, IDPlaceholder) {
		return fmt.Errorf("upstream.contest_url must contain %s", IDPlaceholder)
	}
	if c.Upstream.Timeout.Duration <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Photo.JPEGQuality < 1 || c.Photo.JPEGQuality > 100 {
		return fmt.Errorf("photo.jpeg_quality %d not in 1..100", c.Photo.JPEGQuality)
	}
	if c.Assets.Template == "" || c.Assets.NameFont == "" || c.Assets.TitleFont == "" {
		return errors.New("assets.template, assets.name_font and assets.title_font are required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
