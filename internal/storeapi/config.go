package storeapi

import "time"

// Config represents the configuration for the storefront API client
type Config struct {
	// BaseURL is the remote API root, including the /api/v1 prefix
	BaseURL string

	// Timeout bounds each request; zero means DefaultTimeout
	Timeout time.Duration
}

// DefaultTimeout is applied when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
