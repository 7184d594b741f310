// Package config provides configuration management for the v8waste service.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/v8waste/internal/v8heap"
)

// Config holds all configuration for the application.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// AnalysisConfig holds the core analysis options the CLI exposes as
// configuration (spec.md §6 "configuration surface"; the core itself only
// ever sees the plain v8heap.AnalysisOptions this is mapped onto).
type AnalysisConfig struct {
	TopK                 int  `mapstructure:"top_k"`
	IncludeHiddenClasses bool `mapstructure:"include_hidden_classes"`
	MaxRefinementRounds  int  `mapstructure:"max_refinement_rounds"`
	MaxRetentionPaths    int  `mapstructure:"max_retention_paths"`
	ShapeThrashThreshold int  `mapstructure:"shape_thrash_threshold"`
}

// DatabaseConfig holds database connection configuration for the optional
// run-history repository.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // postgres, mysql or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for snapshot/report
// blobs.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// TelemetryConfig holds OpenTelemetry OTLP exporter configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/v8waste")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from in-memory content (useful for
// testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values, matching
// v8heap.DefaultAnalysisOptions.
func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.top_k", 10)
	v.SetDefault("analysis.include_hidden_classes", false)
	v.SetDefault("analysis.max_refinement_rounds", 6)
	v.SetDefault("analysis.max_retention_paths", 1)
	v.SetDefault("analysis.shape_thrash_threshold", 10)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "v8waste")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Analysis.TopK < 1 {
		return fmt.Errorf("analysis top_k must be at least 1")
	}
	if c.Analysis.MaxRefinementRounds < 1 {
		return fmt.Errorf("analysis max_refinement_rounds must be at least 1")
	}
	if c.Analysis.MaxRetentionPaths < 1 {
		return fmt.Errorf("analysis max_retention_paths must be at least 1")
	}

	// Storage config validation is delegated to internal/storage.

	return nil
}

// ToAnalysisOptions maps the configuration's analysis section onto the
// core's plain options struct. pkg/config is how the CLI builds one from a
// file/env; the core packages never import pkg/config (spec.md §6.3).
func (c *AnalysisConfig) ToAnalysisOptions() v8heap.AnalysisOptions {
	return v8heap.AnalysisOptions{
		TopK:                 c.TopK,
		IncludeHiddenClasses: c.IncludeHiddenClasses,
		MaxRefinementRounds:  c.MaxRefinementRounds,
		MaxRetentionPaths:    c.MaxRetentionPaths,
		ShapeThrashThreshold: c.ShapeThrashThreshold,
	}
}
