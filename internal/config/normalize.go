package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStash()
	c.normalizeDashboard()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStash() {
	c.Stash.Endpoint = strings.TrimSpace(c.Stash.Endpoint)
	if c.Stash.Endpoint == "" {
		c.Stash.Endpoint = defaultStashEndpoint
	}
	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)
	if c.Stash.APIKey == "" {
		if value, ok := os.LookupEnv("STASH_API_KEY"); ok {
			c.Stash.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Stash.RequestTimeout <= 0 {
		c.Stash.RequestTimeout = defaultStashRequestTimeout
	}
}

func (c *Config) normalizeDashboard() {
	c.Dashboard.Bind = strings.TrimSpace(c.Dashboard.Bind)
	if c.Dashboard.Bind == "" {
		c.Dashboard.Bind = defaultDashboardBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
