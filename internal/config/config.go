package config

import (
	"os"
	"strconv"
	"strings"

	"godge/adapters/stats/dge"
	"godge/domain/expression"
	"godge/internal"
	"godge/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Storage  StorageConfig
	Server   ServerConfig
	LogLevel internal.LogLevel
}

// AnalysisConfig holds statistical pipeline settings
type AnalysisConfig struct {
	Seed     *int64 // nil means a clock-derived seed per run
	Variance dge.VarianceMode
	Align    expression.AlignMode
}

// StorageConfig holds result persistence settings
type StorageConfig struct {
	ResultsDir  string
	DatabaseURL string // optional; enables the PostgreSQL result store
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           string
	MaxUploadBytes int64
}

// UsePostgres reports whether results go to PostgreSQL instead of CSV files
func (s StorageConfig) UsePostgres() bool {
	return s.DatabaseURL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}

	config := &Config{
		Analysis: *analysisConfig,
		Storage:  *loadStorageConfig(),
		Server:   *loadServerConfig(),
		LogLevel: internal.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	cfg := &AnalysisConfig{}

	if raw := strings.TrimSpace(os.Getenv("GODGE_SEED")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("GODGE_SEED must be an integer")
		}
		cfg.Seed = &seed
	}

	variance, err := dge.ParseVarianceMode(getEnvOrDefault("GODGE_VARIANCE", string(dge.VariancePooled)))
	if err != nil {
		return nil, errors.ConfigInvalid("GODGE_VARIANCE must be pooled or unequal")
	}
	cfg.Variance = variance

	align, err := expression.ParseAlignMode(getEnvOrDefault("GODGE_ALIGN", string(expression.AlignStrict)))
	if err != nil {
		return nil, errors.ConfigInvalid("GODGE_ALIGN must be strict or intersect")
	}
	cfg.Align = align

	return cfg, nil
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		ResultsDir:  getEnvOrDefault("GODGE_RESULTS_DIR", "."),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		MaxUploadBytes: getEnvInt64OrDefault("GODGE_MAX_UPLOAD_BYTES", 64<<20),
	}
}

func validateConfig(config *Config) error {
	if config.Storage.ResultsDir == "" {
		return errors.ConfigInvalid("results directory is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("GODGE_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
