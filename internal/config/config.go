package config

import "time"

// Config is the top-level pricer configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Catalog CatalogConfig `yaml:"catalog"`
	Pricing PricingConfig `yaml:"pricing"`
	Adjust  AdjustConfig  `yaml:"adjust"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds marketplace REST settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Platform     string        `yaml:"platform"`
	Language     string        `yaml:"language"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// SessionConfig holds sign-in and presence settings.
type SessionConfig struct {
	EnvFile      string        `yaml:"env_file"`
	WSURL        string        `yaml:"ws_url"`
	OpenTimeout  time.Duration `yaml:"open_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	PingInterval time.Duration `yaml:"ping_interval"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
}

// CatalogConfig holds item index caching settings.
type CatalogConfig struct {
	IndexTTL time.Duration `yaml:"index_ttl"`
}

// PricingConfig selects and tunes the pricing strategy.
type PricingConfig struct {
	Strategy   string  `yaml:"strategy"`
	SampleSize int     `yaml:"sample_size"`
	Disparity  float64 `yaml:"disparity"`
}

// AdjustConfig holds batch adjustment settings.
type AdjustConfig struct {
	Threshold    float64       `yaml:"threshold"`
	PaceInterval time.Duration `yaml:"pace_interval"`
	PaceBurst    int           `yaml:"pace_burst"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
