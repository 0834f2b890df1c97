package token

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the signing settings for bearer tokens. It is loaded once at
// startup and immutable afterwards; the Service copies it at construction.
type Config struct {
	// Secret is the HMAC-SHA256 signing key. Required, confidential,
	// supplied via environment (TOKEN_SECRET) rather than config files.
	Secret string `mapstructure:"secret"`

	// Issuer is the "iss" claim stamped into and required of every token.
	Issuer string `mapstructure:"issuer"`

	// Audience is the "aud" claim stamped into and required of every token.
	Audience string `mapstructure:"audience"`

	// ExpirySeconds is the token lifetime (default: 3600).
	ExpirySeconds int `mapstructure:"expiry_seconds"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ExpirySeconds == 0 {
		c.ExpirySeconds = 3600
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("token: secret is required")
	}
	if c.Issuer == "" {
		return errors.New("token: issuer is required")
	}
	if c.Audience == "" {
		return errors.New("token: audience is required")
	}
	if c.ExpirySeconds <= 0 {
		return fmt.Errorf("token: expiry_seconds must be positive (got: %d)", c.ExpirySeconds)
	}
	return nil
}

// TTL returns the configured token lifetime as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.ExpirySeconds) * time.Second
}
