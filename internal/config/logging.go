package config

import (
	"fmt"
	"strings"

	"novapro/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // console, json
	File       string          `yaml:"file,omitempty"`       // optional extra sink
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles
}

// Validate checks level and format.
func (c LoggingConfig) Validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "", "console", "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid logging.format %q (valid: console, json)", c.Format)
	}
}

// Options converts the config into logging options.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		Categories: c.Categories,
	}
}
