package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"golife/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis   AnalysisConfig
	MonteCarlo MonteCarloConfig
	Paths      PathConfig
	LogLevel   string
}

// AnalysisConfig holds fitting and bound settings
type AnalysisConfig struct {
	ConfidenceLevel float64
	GridPoints      int
	BoundMethod     string
}

// MonteCarloConfig holds dispersion simulation settings
type MonteCarloConfig struct {
	Trials     int
	SampleSize int
	Seed       int64
}

// PathConfig holds file system paths
type PathConfig struct {
	DatasetFile string
	OutputDir   string
}

// Load reads configuration from .env (when present) and environment
// variables, then validates it
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Analysis: AnalysisConfig{
			ConfidenceLevel: getEnvFloatOrDefault("CONFIDENCE_LEVEL", 90),
			GridPoints:      getEnvIntOrDefault("GRID_POINTS", 50),
			BoundMethod:     getEnvOrDefault("BOUND_METHOD", "fisher"),
		},
		MonteCarlo: MonteCarloConfig{
			Trials:     getEnvIntOrDefault("MC_TRIALS", 500),
			SampleSize: getEnvIntOrDefault("MC_SAMPLE_SIZE", 10),
			Seed:       getEnvInt64OrDefault("MC_SEED", 1),
		},
		Paths: PathConfig{
			DatasetFile: getEnvOrDefault("DATASET_FILE", ""),
			OutputDir:   getEnvOrDefault("OUTPUT_DIR", "."),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.ConfidenceLevel <= 0 || config.Analysis.ConfidenceLevel >= 100 {
		return errors.ConfigInvalid("CONFIDENCE_LEVEL must be strictly between 0 and 100")
	}
	if config.Analysis.GridPoints < 2 {
		return errors.ConfigInvalid("GRID_POINTS must be at least 2")
	}
	switch config.Analysis.BoundMethod {
	case "fisher", "likelihood_ratio":
	default:
		return errors.ConfigInvalid("BOUND_METHOD must be fisher or likelihood_ratio")
	}
	if config.MonteCarlo.Trials < 1 {
		return errors.ConfigInvalid("MC_TRIALS must be positive")
	}
	if config.MonteCarlo.SampleSize < 2 {
		return errors.ConfigInvalid("MC_SAMPLE_SIZE must be at least 2")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
