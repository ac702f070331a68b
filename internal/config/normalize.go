package config

import (
	"strings"
	"time"
)

const (
	DefaultAddr           = ":8080"
	DefaultDB             = "quizkit.db"
	DefaultEndpoint       = "http://127.0.0.1:8080"
	DefaultLog            = "dev"
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheSize      = 256
	DefaultClientTimeout  = 60 * time.Second
	DefaultDifficulty     = "medium"
	DefaultCount          = 3
)

func Normalize(cfg *Config) {
	cfg.Log = strings.ToLower(strings.TrimSpace(cfg.Log))
	if cfg.Log == "" {
		cfg.Log = DefaultLog
	}

	if cfg.Service.Addr == "" {
		cfg.Service.Addr = DefaultAddr
	}
	if cfg.Service.DB == "" {
		cfg.Service.DB = DefaultDB
	}
	if cfg.Service.RequestTimeout == 0 {
		cfg.Service.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Service.CacheSize == 0 {
		cfg.Service.CacheSize = DefaultCacheSize
	}
	origins := cfg.Service.AllowedOrigins[:0]
	for _, origin := range cfg.Service.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.Service.AllowedOrigins = origins

	if cfg.Client.Endpoint == "" {
		cfg.Client.Endpoint = DefaultEndpoint
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = DefaultClientTimeout
	}
	if strings.TrimSpace(cfg.Client.Difficulty) == "" {
		cfg.Client.Difficulty = DefaultDifficulty
	}
	if cfg.Client.Count == 0 {
		cfg.Client.Count = DefaultCount
	}
}
