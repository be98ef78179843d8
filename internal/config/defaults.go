package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://api.warframe.market/v1"
	DefaultPlatform     = "pc"
	DefaultLanguage     = "en"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 1 * time.Second
	DefaultEnvFile      = ".env"
	DefaultWSURL        = "wss://warframe.market/socket"
	DefaultOpenTimeout  = 5 * time.Second
	DefaultSettleDelay  = 1 * time.Second
	DefaultPingInterval = 30 * time.Second
	DefaultPingTimeout  = 90 * time.Second
	DefaultIndexTTL     = 1 * time.Hour
	DefaultStrategy     = "mode"
	DefaultSampleSize   = 10
	DefaultDisparity    = 0.10
	DefaultThreshold    = 0.05
	DefaultPaceInterval = 1 * time.Second
	DefaultPaceBurst    = 1
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Platform == "" {
		c.API.Platform = DefaultPlatform
	}
	if c.API.Language == "" {
		c.API.Language = DefaultLanguage
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Session defaults
	if c.Session.EnvFile == "" {
		c.Session.EnvFile = DefaultEnvFile
	}
	if c.Session.WSURL == "" {
		c.Session.WSURL = DefaultWSURL
	}
	if c.Session.OpenTimeout == 0 {
		c.Session.OpenTimeout = DefaultOpenTimeout
	}
	if c.Session.SettleDelay == 0 {
		c.Session.SettleDelay = DefaultSettleDelay
	}
	if c.Session.PingInterval == 0 {
		c.Session.PingInterval = DefaultPingInterval
	}
	if c.Session.PingTimeout == 0 {
		c.Session.PingTimeout = DefaultPingTimeout
	}

	// Catalog defaults
	if c.Catalog.IndexTTL == 0 {
		c.Catalog.IndexTTL = DefaultIndexTTL
	}

	// Pricing defaults
	if c.Pricing.Strategy == "" {
		c.Pricing.Strategy = DefaultStrategy
	}
	if c.Pricing.SampleSize == 0 {
		c.Pricing.SampleSize = DefaultSampleSize
	}
	if c.Pricing.Disparity == 0 {
		c.Pricing.Disparity = DefaultDisparity
	}

	// Adjust defaults
	if c.Adjust.Threshold == 0 {
		c.Adjust.Threshold = DefaultThreshold
	}
	if c.Adjust.PaceInterval == 0 {
		c.Adjust.PaceInterval = DefaultPaceInterval
	}
	if c.Adjust.PaceBurst == 0 {
		c.Adjust.PaceBurst = DefaultPaceBurst
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}
