package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvAddr     = "QUIZKIT_ADDR"
	EnvDB       = "QUIZKIT_DB"
	EnvEndpoint = "QUIZKIT_ENDPOINT"
	EnvLog      = "QUIZKIT_LOG"
)

// Load reads path (when set), applies environment overrides, then normalizes
// and validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	Normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if value, ok := lookup(EnvAddr); ok && strings.TrimSpace(value) != "" {
		cfg.Service.Addr = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvDB); ok && strings.TrimSpace(value) != "" {
		cfg.Service.DB = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvEndpoint); ok && strings.TrimSpace(value) != "" {
		cfg.Client.Endpoint = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvLog); ok && strings.TrimSpace(value) != "" {
		cfg.Log = strings.TrimSpace(value)
	}
}
