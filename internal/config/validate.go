package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidLogLevels lists the accepted log.level values.
var ValidLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.CacheRoot == "" {
		return fmt.Errorf("cache_root is required")
	}
	if err := validateSpecPath(c.SpecPath); err != nil {
		return err
	}
	if c.Shell == "" {
		return fmt.Errorf("shell is required")
	}

	if err := c.validateLog(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := c.validateRemote(); err != nil {
		return fmt.Errorf("remote validation failed: %w", err)
	}
	if c.Archive.Enabled() && c.Archive.Region == "" {
		return fmt.Errorf("archive validation failed: region is required when bucket is set")
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("lock validation failed: ttl must be positive, got %s", c.Lock.TTL)
	}
	return nil
}

func validateSpecPath(p string) error {
	if p == "" {
		return fmt.Errorf("spec_path is required")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("spec_path must be relative to the lab working copy, got %q", p)
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("spec_path must stay inside the lab working copy, got %q", p)
	}
	return nil
}

func (c *Config) validateLog() error {
	if !ValidLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.Backups < 0 {
		return fmt.Errorf("backups must not be negative, got %d", c.Log.Backups)
	}
	return nil
}

func (c *Config) validateRemote() error {
	if !c.Remote.Enabled() {
		return nil
	}
	if c.Remote.Port < 1 || c.Remote.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Remote.Port)
	}
	if c.Remote.User == "" {
		return fmt.Errorf("user is required when host is set")
	}
	if c.Remote.KeyFile == "" {
		return fmt.Errorf("key_file is required when host is set")
	}
	return nil
}
