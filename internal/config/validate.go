package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := validateURL("api.base_url", c.API.BaseURL, "http", "https"); err != nil {
		return err
	}
	if c.API.Platform == "" {
		return errors.New("api.platform is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must be >= 0")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if err := validateURL("session.ws_url", c.Session.WSURL, "ws", "wss"); err != nil {
		return err
	}
	if c.Session.OpenTimeout <= 0 {
		return errors.New("session.open_timeout must be > 0")
	}
	if c.Session.SettleDelay < 0 {
		return errors.New("session.settle_delay must be >= 0")
	}
	if c.Session.PingTimeout <= c.Session.PingInterval {
		return fmt.Errorf("session.ping_timeout (%s) must exceed session.ping_interval (%s)",
			c.Session.PingTimeout, c.Session.PingInterval)
	}

	switch c.Pricing.Strategy {
	case "mode", "tier":
	default:
		return fmt.Errorf("pricing.strategy must be mode or tier, got %q", c.Pricing.Strategy)
	}
	if c.Pricing.SampleSize < 1 {
		return errors.New("pricing.sample_size must be >= 1")
	}
	if c.Pricing.Disparity < 0 || c.Pricing.Disparity > 1 {
		return fmt.Errorf("pricing.disparity must be between 0 and 1, got %g", c.Pricing.Disparity)
	}

	if c.Adjust.Threshold < 0 || c.Adjust.Threshold >= 1 {
		return fmt.Errorf("adjust.threshold must be in [0, 1), got %g", c.Adjust.Threshold)
	}
	if c.Adjust.PaceInterval < 0 {
		return errors.New("adjust.pace_interval must be >= 0")
	}
	if c.Adjust.PaceBurst < 1 {
		return errors.New("adjust.pace_burst must be >= 1")
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// ParseLevel converts a logging.level value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

func validateURL(field, raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be a %s URL, got %q", field, strings.Join(schemes, " or "), raw)
}
