package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validation constants define acceptable bounds for configuration values
const (
	// Token validation
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	// Crafty request timeout
	minCraftyTimeout = 1 * time.Second
	maxCraftyTimeout = 2 * time.Minute

	// Session lifetimes
	minSessionTTL      = 10 * time.Second
	maxSessionTTL      = 24 * time.Hour
	minConfirmationTTL = 5 * time.Second
	maxConfirmationTTL = 10 * time.Minute

	// Sweep interval
	minSweepInterval = 1 * time.Second
	maxSweepInterval = 1 * time.Hour

	maxReactionPacing = 5 * time.Second
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join.
//
// Validated fields:
//   - Token: at least 50 characters
//   - CraftyHost: absolute http or https URL
//   - CraftyTimeout: between 1s and 2m
//   - SessionTTL, MenuTTL: between 10s and 24h
//   - ConfirmationTTL: between 5s and 10m
//   - SessionSweepInterval: between 1s and 1h
//   - DefaultCooldown, ReactionPacing: not negative
//   - LogLevel: debug, info, warn or error
func (c *Config) Validate() error {
	var errs []error

	if err := c.validateToken(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateCraftyHost(); err != nil {
		errs = append(errs, err)
	}

	if err := validateRange("CRAFTY_TIMEOUT", c.CraftyTimeout, minCraftyTimeout, maxCraftyTimeout); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateLifetimes(); err != nil {
		errs = append(errs, err)
	}

	if c.DefaultCooldown < 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_COOLDOWN must not be negative, got %v", c.DefaultCooldown))
	}

	if c.ReactionPacing < 0 || c.ReactionPacing > maxReactionPacing {
		errs = append(errs, fmt.Errorf("REACTION_PACING must be between 0 and %v, got %v", maxReactionPacing, c.ReactionPacing))
	}

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

// validateToken ensures the Discord token is present and has valid length
func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required but not set")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateCraftyHost() error {
	u, err := url.Parse(c.CraftyHost)
	if err != nil {
		return fmt.Errorf("CRAFTY_CONTROLLER_HOST is not a valid URL: %w", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CRAFTY_CONTROLLER_HOST must be an absolute http(s) URL, got %q", c.CraftyHost)
	}

	return nil
}

func (c *Config) validateLifetimes() error {
	var errs []error

	if err := validateRange("SESSION_TTL", c.SessionTTL, minSessionTTL, maxSessionTTL); err != nil {
		errs = append(errs, err)
	}

	if err := validateRange("MENU_TTL", c.MenuTTL, minSessionTTL, maxSessionTTL); err != nil {
		errs = append(errs, err)
	}

	if err := validateRange("CONFIRMATION_TTL", c.ConfirmationTTL, minConfirmationTTL, maxConfirmationTTL); err != nil {
		errs = append(errs, err)
	}

	if err := validateRange("SESSION_SWEEP_INTERVAL", c.SessionSweepInterval, minSweepInterval, maxSweepInterval); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateRange(fieldName string, value, min, max time.Duration) error {
	if value < min {
		return fmt.Errorf("%s must be at least %v, got %v", fieldName, min, value)
	}

	if value > max {
		return fmt.Errorf("%s must be at most %v, got %v", fieldName, max, value)
	}

	return nil
}
