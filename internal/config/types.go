package config

import "time"

type Config struct {
	Log     string        `yaml:"log"`
	Service ServiceConfig `yaml:"service"`
	Client  ClientConfig  `yaml:"client"`
	Labels  LabelsConfig  `yaml:"labels"`
}

// ServiceConfig configures the persistence service.
type ServiceConfig struct {
	Addr           string        `yaml:"addr"`
	DB             string        `yaml:"db"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheSize      int           `yaml:"cache_size"`
}

// ClientConfig configures the terminal host and its backend calls.
type ClientConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
	Difficulty string        `yaml:"difficulty"`
	Count      int           `yaml:"count"`
}

type LabelsConfig struct {
	Submit string `yaml:"submit"`
	Reveal string `yaml:"reveal"`
	Reset  string `yaml:"reset"`
}
