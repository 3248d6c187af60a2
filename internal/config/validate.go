package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStash() error {
	if c.Stash.Endpoint == "" {
		return errors.New("stash.endpoint must be set")
	}
	parsed, err := url.Parse(c.Stash.Endpoint)
	if err != nil {
		return fmt.Errorf("stash.endpoint is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("stash.endpoint must use http or https, got %q", parsed.Scheme)
	}
	if c.Stash.RequestTimeout <= 0 {
		return errors.New("stash.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.PHashDistanceThreshold < 0 || c.Matching.PHashDistanceThreshold > 1 {
		return errors.New("matching.phash_distance_threshold must be between 0 and 1")
	}
	if c.Matching.TitleSimilarityThreshold < 0 || c.Matching.TitleSimilarityThreshold > 1 {
		return errors.New("matching.title_similarity_threshold must be between 0 and 1")
	}
	if c.Matching.Workers < 0 {
		return errors.New("matching.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
