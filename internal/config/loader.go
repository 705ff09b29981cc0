package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: INV_INVENTORY_PAGE_SIZE
// sets inventory.page_size.
const EnvPrefix = "INV"

// Loader is the interface for reading Config.
type Loader interface {
	// Load reads, merges, and validates the configuration.
	Load() (*Config, error)

	// ConfigPath returns the configuration file in use, or "" when none.
	ConfigPath() string
}

// DefaultConfigPath returns ~/.config/cloud-inventory/config.yaml, or "" when
// the home directory cannot be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cloud-inventory", "config.yaml")
}

// ViperLoader is the production Loader.
type ViperLoader struct {
	v        *viper.Viper
	path     string
	explicit bool
	used     string
}

// NewLoader returns a Loader that reads path. An empty path falls back to
// DefaultConfigPath, which may be absent; an explicit path must exist.
func NewLoader(path string) *ViperLoader {
	l := &ViperLoader{v: viper.New(), path: path, explicit: path != ""}
	if l.path == "" {
		l.path = DefaultConfigPath()
	}
	return l
}

// BindFlags binds command line flags to configuration keys. Only flags the
// user actually set override lower layers. keys maps config key to flag name.
func (l *ViperLoader) BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("bind %s: no flag --%s", key, name)
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Load implements Loader.
func (l *ViperLoader) Load() (*Config, error) {
	setDefaults(l.v, Default())

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.path != "" {
		l.v.SetConfigFile(l.path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if l.explicit || !missing {
				return nil, fmt.Errorf("read config %s: %w", l.path, err)
			}
		} else {
			l.used = l.path
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Inventory.Services = splitList(cfg.Inventory.Services)
	cfg.AWS.Regions = splitList(cfg.AWS.Regions)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ConfigPath implements Loader.
func (l *ViperLoader) ConfigPath() string { return l.used }

// setDefaults registers every key so AutomaticEnv and Unmarshal see it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("aws.profile", d.AWS.Profile)
	v.SetDefault("aws.regions", append([]string{}, d.AWS.Regions...))
	v.SetDefault("aws.region_source", d.AWS.RegionSource)
	v.SetDefault("aws.include_restricted", d.AWS.IncludeRestricted)
	v.SetDefault("inventory.mode", d.Inventory.Mode)
	v.SetDefault("inventory.services", d.Inventory.Services)
	v.SetDefault("inventory.output", d.Inventory.Output)
	v.SetDefault("inventory.page_size", d.Inventory.PageSize)
	v.SetDefault("inventory.concurrency", d.Inventory.Concurrency)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// splitList flattens comma-separated entries ("ec2,rds") and drops blanks,
// so lists from env vars, flags, and YAML all normalise the same way.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
