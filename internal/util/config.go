// Package util provides common utilities for sentineldash.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIBase is used when no backend origin is configured.
const DefaultAPIBase = "http://127.0.0.1:8000"

// Config holds all application configuration.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	API APIConfig `mapstructure:"api"`

	// Address for the prometheus endpoint, empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// Number of journal entries shown by the history command.
	HistoryLimit int `mapstructure:"history_limit"`

	ReportOutputDir string `mapstructure:"report_output_dir"`
}

// APIConfig describes the telemetry backend.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".sentineldash")

	return &Config{
		DataDir:  dataDir,
		LogLevel: "info",
		LogFile:  filepath.Join(dataDir, "sentineldash.log"),

		API: APIConfig{
			BaseURL: DefaultAPIBase,
		},

		HistoryLimit:    20,
		ReportOutputDir: filepath.Join(dataDir, "reports"),
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(cfg.DataDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("sentineldash")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("history_limit", cfg.HistoryLimit)
	v.SetDefault("report_output_dir", cfg.ReportOutputDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.API.BaseURL = NormalizeBaseURL(cfg.API.BaseURL)

	if err := EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return cfg, nil
}

// NormalizeBaseURL strips trailing slashes and falls back to DefaultAPIBase.
func NormalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultAPIBase
	}
	return base
}

// EnsureDir ensures a directory exists.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
