package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Timing   Timing   `yaml:"timing"`
	ImageGen ImageGen `yaml:"imagegen"`
	Speech   Speech   `yaml:"speech"`
}

type Server struct {
	Port    string `yaml:"port" env:"PORT"`
	LogMode string `yaml:"log_mode" env:"LOG_MODE"`
}

type Redis struct {
	Addr       string `yaml:"addr" env:"REDIS_ADDR"`
	Password   string `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int    `yaml:"db" env:"REDIS_DB"`
	GalleryTTL string `yaml:"gallery_ttl" env:"REDIS_GALLERY_TTL"`
	SessionTTL string `yaml:"session_ttl" env:"REDIS_SESSION_TTL"`
}

type Postgres struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// Timing overrides the per-game transition delays. Empty values keep the game defaults.
type Timing struct {
	Advance  string `yaml:"advance" env:"TIMING_ADVANCE"`
	Exit     string `yaml:"exit" env:"TIMING_EXIT"`
	Memorize string `yaml:"memorize" env:"TIMING_MEMORIZE"`
	Hide     string `yaml:"hide" env:"TIMING_HIDE"`
	Conceal  string `yaml:"conceal" env:"TIMING_CONCEAL"`
}

type ImageGen struct {
	APIKey       string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model" env:"IMAGEGEN_MODEL"`
	FrameSpacing string `yaml:"frame_spacing" env:"IMAGEGEN_FRAME_SPACING"`
}

type Speech struct {
	Enabled         bool   `yaml:"enabled" env:"SPEECH_ENABLED"`
	Language        string `yaml:"language" env:"SPEECH_LANGUAGE"`
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Load reads YAML config from path, then applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
