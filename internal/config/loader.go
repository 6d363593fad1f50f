package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "minisql.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "minisql.yml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MINISQL_"

// flagKeys maps flag names registered by RegisterFlags to config keys.
var flagKeys = map[string]string{
	"catalog":        "catalog.path",
	"catalog-format": "catalog.format",
	"validate":       "compiler.validate",
	"apply-ddl":      "compiler.apply_ddl",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default is ./minisql.yaml)")
	fs.String("catalog", "", "path to the catalog file")
	fs.String("catalog-format", "", "catalog file format: json or yaml")
	fs.Bool("validate", true, "run semantic analysis on compiled programs")
	fs.Bool("apply-ddl", true, "apply CREATE TABLE statements to the catalog")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn or error")
	fs.String("log-format", DefaultLogFormat, "log format: text or json")
}

// Load builds a Config from its layers.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
//
// cfgFile names the YAML file to read. When empty, minisql.yaml or
// minisql.yml in the working directory is used if present. A relative
// catalog path from the file is resolved against the file's directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" && flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			cfgFile = f.Value.String()
		}
	}
	if cfgFile == "" {
		cfgFile = findConfigFile(".")
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if p := k.String("catalog.path"); p != "" && !filepath.IsAbs(p) {
			resolved := filepath.Join(filepath.Dir(cfgFile), p)
			if err := k.Set("catalog.path", resolved); err != nil {
				return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
			}
		}
	}

	// 3. Environment variables
	// Transform: MINISQL_COMPILER_APPLY_DDL -> compiler.apply_ddl
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps an environment variable to a config key. The first underscore
// after the prefix separates the section from the field name.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
