// Package config loads minisql settings from defaults, a YAML file,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/minisql/pkg/catalog"
)

// Config is the complete minisql configuration.
type Config struct {
	Catalog  CatalogConfig  `koanf:"catalog"`
	Compiler CompilerConfig `koanf:"compiler"`
	Log      LogConfig      `koanf:"log"`

	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// CatalogConfig locates the persisted catalog.
type CatalogConfig struct {
	// Path of the catalog file. Empty keeps the catalog in memory only.
	Path string `koanf:"path"`
	// Format is json or yaml. Empty infers it from the Path extension.
	Format string `koanf:"format"`
}

// CatalogFormat resolves the catalog file format.
func (c CatalogConfig) CatalogFormat() (catalog.Format, error) {
	if c.Format != "" {
		return catalog.ParseFormat(c.Format)
	}
	if c.Path == "" {
		return catalog.FormatJSON, nil
	}
	return catalog.FormatFromPath(c.Path)
}

// CompilerConfig controls the compilation pipeline.
type CompilerConfig struct {
	Validate bool `koanf:"validate"`
	ApplyDDL bool `koanf:"apply_ddl"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the loaded configuration for unsupported values.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be %s or %s", c.Log.Format, LogFormatText, LogFormatJSON)
	}
	if _, err := c.Catalog.CatalogFormat(); err != nil {
		return fmt.Errorf("invalid catalog configuration: %w", err)
	}
	return nil
}
