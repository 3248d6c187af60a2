package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stashdup/internal/config"
	"stashdup/internal/dupe"
	"stashdup/internal/scanstore"
	"stashdup/internal/stash"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) stashClient() (*stash.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return stash.NewClient(stash.Config{
		Endpoint:       cfg.Stash.Endpoint,
		APIKey:         cfg.Stash.APIKey,
		TimeoutSeconds: cfg.Stash.RequestTimeout,
	}), nil
}

func (c *commandContext) matchOptions() (dupe.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return dupe.Options{}, err
	}
	return dupe.Options{
		PHashDistanceThreshold:   cfg.Matching.PHashDistanceThreshold,
		TitleSimilarityThreshold: cfg.Matching.TitleSimilarityThreshold,
		IdentifierDominant:       cfg.Matching.IdentifierDominance,
		Workers:                  cfg.Matching.Workers,
	}, nil
}

func (c *commandContext) withStore(fn func(*scanstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := scanstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
