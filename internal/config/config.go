// Package config defines the inventory configuration and loads it from
// defaults, an optional YAML file, INV_* environment variables, and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/output"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/regions"
)

// Inventory modes.
const (
	// ModeServices lists specific services (schema Region,Service,ResourceId,Details).
	ModeServices = "services"

	// ModeTags lists everything the tagging API knows about
	// (schema Region,ResourceARN,Tags).
	ModeTags = "tags"
)

// Config is the top-level application configuration.
// It is loaded from ~/.config/cloud-inventory/config.yaml when present.
type Config struct {
	AWS       AWSConfig       `mapstructure:"aws"       yaml:"aws"       json:"aws"`
	Inventory InventoryConfig `mapstructure:"inventory" yaml:"inventory" json:"inventory"`
	Log       LogConfig       `mapstructure:"log"       yaml:"log"       json:"log"`
}

// AWSConfig selects the credentials and regions a run uses.
type AWSConfig struct {
	// Profile is the shared-config profile. Empty uses the ambient
	// credential chain.
	Profile string `mapstructure:"profile" yaml:"profile" json:"profile"`

	// Regions, when non-empty, replaces the catalog entirely.
	Regions []string `mapstructure:"regions" yaml:"regions" json:"regions"`

	// RegionSource is "static" (built-in list) or "dynamic" (DescribeRegions).
	RegionSource string `mapstructure:"region_source" yaml:"region_source" json:"region_source"`

	// IncludeRestricted appends GovCloud and China regions to the static list.
	IncludeRestricted bool `mapstructure:"include_restricted" yaml:"include_restricted" json:"include_restricted"`
}

// InventoryConfig controls what is collected and where it is written.
type InventoryConfig struct {
	// Mode is ModeServices or ModeTags.
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// Services is the service set for ModeServices. Ignored for ModeTags.
	Services []string `mapstructure:"services" yaml:"services" json:"services"`

	// Output is the CSV destination.
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// PageSize is the requested number of items per API page.
	PageSize int `mapstructure:"page_size" yaml:"page_size" json:"page_size"`

	// Concurrency is the number of regions collected at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	services := make([]string, 0, 3)
	for _, s := range inventory.DefaultServices() {
		services = append(services, strings.ToLower(string(s)))
	}
	return Config{
		AWS: AWSConfig{
			RegionSource: string(regions.SourceStatic),
		},
		Inventory: InventoryConfig{
			Mode:        ModeServices,
			Services:    services,
			Output:      output.DefaultPath,
			PageSize:    inventory.DefaultPageSize,
			Concurrency: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Schema returns the CSV layout for the configured mode.
func (c *Config) Schema() output.Schema {
	if c.Inventory.Mode == ModeTags {
		return output.SchemaTags
	}
	return output.SchemaServices
}

// Validate reports every invalid value at once. It makes no AWS calls.
func (c *Config) Validate() error {
	var errs []error

	switch regions.Source(c.AWS.RegionSource) {
	case regions.SourceStatic, regions.SourceDynamic:
	default:
		errs = append(errs, fmt.Errorf("aws.region_source: unknown source %q (want static or dynamic)", c.AWS.RegionSource))
	}
	for _, r := range c.AWS.Regions {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, errors.New("aws.regions: empty region name"))
			break
		}
	}

	switch c.Inventory.Mode {
	case ModeServices:
		if len(c.Inventory.Services) == 0 {
			errs = append(errs, errors.New("inventory.services: at least one service is required"))
		}
		for _, s := range c.Inventory.Services {
			if _, err := inventory.ParseService(s); err != nil {
				errs = append(errs, fmt.Errorf("inventory.services: %w", err))
			}
		}
	case ModeTags:
	default:
		errs = append(errs, fmt.Errorf("inventory.mode: unknown mode %q (want services or tags)", c.Inventory.Mode))
	}

	if err := inventory.ValidatePageSize(c.Inventory.PageSize); err != nil {
		errs = append(errs, fmt.Errorf("inventory.page_size: %w", err))
	}
	if c.Inventory.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("inventory.concurrency: must be at least 1 (got %d)", c.Inventory.Concurrency))
	}
	if strings.TrimSpace(c.Inventory.Output) == "" {
		errs = append(errs, errors.New("inventory.output: path is required"))
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q (want console or json)", c.Log.Format))
	}

	return errors.Join(errs...)
}
