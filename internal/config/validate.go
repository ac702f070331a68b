package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogModes = map[string]bool{
	"dev":        true,
	"debug":      true,
	"prod":       true,
	"production": true,
	"quiet":      true,
}

// Validate collects every problem in cfg into one error.
func Validate(cfg Config) error {
	var problems []string
	if !validLogModes[cfg.Log] {
		problems = append(problems, fmt.Sprintf("log: unknown mode %q", cfg.Log))
	}
	if cfg.Service.RequestTimeout < 0 {
		problems = append(problems, "service.request_timeout: must not be negative")
	}
	if cfg.Service.CacheSize < 0 {
		problems = append(problems, "service.cache_size: must not be negative")
	}
	if cfg.Client.Timeout < 0 {
		problems = append(problems, "client.timeout: must not be negative")
	}
	if cfg.Client.Count < 0 {
		problems = append(problems, "client.count: must be positive")
	}
	if !strings.HasPrefix(cfg.Client.Endpoint, "http://") && !strings.HasPrefix(cfg.Client.Endpoint, "https://") {
		problems = append(problems, fmt.Sprintf("client.endpoint: %q is not an http(s) url", cfg.Client.Endpoint))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}
