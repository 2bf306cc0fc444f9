package config

import (
	"path/filepath"
	"time"
)

// LogLevel names a logging verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// DatabaseFile is the SQLite file name inside DataDir.
const DatabaseFile = "slidesync.db"

// Config is the top-level slidesync configuration, corresponding to .slidesync.yml.
type Config struct {
	DataDir      string             `yaml:"data_dir" koanf:"data_dir"`
	StorageKey   string             `yaml:"storage_key" koanf:"storage_key"`
	Server       ServerConfig       `yaml:"server" koanf:"server"`
	Render       RenderConfig       `yaml:"render" koanf:"render"`
	Presentation PresentationConfig `yaml:"presentation" koanf:"presentation"`
	Log          LogConfig          `yaml:"log" koanf:"log"`
	Import       ImportConfig       `yaml:"import" koanf:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RenderConfig controls document builds.
type RenderConfig struct {
	StylesheetURL string  `yaml:"stylesheet_url" koanf:"stylesheet_url"`
	DefaultScale  float64 `yaml:"default_scale" koanf:"default_scale"`
}

// PresentationConfig controls presentation mode.
type PresentationConfig struct {
	IdleTimeoutMS int `yaml:"idle_timeout_ms" koanf:"idle_timeout_ms"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level LogLevel `yaml:"level" koanf:"level"`
	File  string   `yaml:"file" koanf:"file"`
}

// ImportConfig holds markdown import settings.
type ImportConfig struct {
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DatabaseFile)
}

// IdleTimeout returns the presentation controls timeout.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Presentation.IdleTimeoutMS) * time.Millisecond
}
