// Package config loads the cache and limits configuration from YAML with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Config holds all subsystem configuration.
type Config struct {
	DBPath string       `yaml:"db_path"`
	Log    LogConfig    `yaml:"log"`
	Cache  CacheConfig  `yaml:"cache"`
	Limits LimitsConfig `yaml:"limits"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// CacheConfig tunes the response cache.
type CacheConfig struct {
	MemoryCapacity  int                              `yaml:"memory_capacity"`
	FuzzyThreshold  float64                          `yaml:"fuzzy_threshold"`
	FuzzyCandidates int                              `yaml:"fuzzy_candidates"`
	MaxRequestLen   int                              `yaml:"max_request_len"`
	TTLs            map[models.APIType]time.Duration `yaml:"ttls"`
}

// LimitsConfig optionally overrides entries in the static plan table.
// Tiers not listed here keep their built-in ceilings.
type LimitsConfig struct {
	Plans map[models.PlanTier]models.PlanLimits `yaml:"plans"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "descubra.db",
		Log:    LogConfig{Level: "info"},
		Cache: CacheConfig{
			MemoryCapacity:  500,
			FuzzyThreshold:  0.85,
			FuzzyCandidates: 100,
			MaxRequestLen:   500,
			TTLs: map[models.APIType]time.Duration{
				models.APITypeGenerativeText: 24 * time.Hour,
				models.APITypeWebSearch:      6 * time.Hour,
				models.APITypeWeather:        time.Hour,
				models.APITypePlaces:         30 * 24 * time.Hour,
			},
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
