package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/config"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/logging"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/identity"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/version"
)

// errSilentFailure makes main exit 1 without printing anything further.
var errSilentFailure = errors.New("silent failure")

// app carries the state shared by every command: resolved configuration,
// the logger, and the AWS entry points. Tests swap the factories for fakes.
type app struct {
	configPath string

	// configFile is the config file actually read, or "" when none was.
	configFile string
	cfg        *config.Config
	log        zerolog.Logger

	provider        common.AWSClientProvider
	regionClients   common.ClientFactory
	inventoryClient inventory.ClientFactory
	identityClients identity.ClientFactory

	// logOut is where diagnostics go; nil means stderr.
	logOut io.Writer
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{
		provider:      common.NewDefaultAWSClientProvider(),
		regionClients: common.NewClientSet,
	})
}

// flagKeys maps configuration keys to the flag that overrides them. A flag is
// bound only when the executing command defines it.
var flagKeys = map[string]string{
	"aws.profile":            "profile",
	"aws.regions":            "regions",
	"aws.region_source":      "region-source",
	"aws.include_restricted": "include-restricted",
	"inventory.mode":         "mode",
	"inventory.services":     "services",
	"inventory.output":       "output",
	"inventory.page_size":    "page-size",
	"inventory.concurrency":  "concurrency",
	"log.level":              "log-level",
	"log.format":             "log-format",
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "inv",
		Short:         "Read-only, region-partitioned AWS resource inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default: ~/.config/cloud-inventory/config.yaml if present)")
	pf.String("profile", "", "AWS profile name (default: ambient credential chain)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatConsole, "Log format: console or json")

	root.AddCommand(newInventoryCmd(a))
	root.AddCommand(newAuditCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// init loads configuration (defaults, file, env, flags) and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	loader := config.NewLoader(a.configPath)

	keys := make(map[string]string, len(flagKeys))
	for key, name := range flagKeys {
		if cmd.Flags().Lookup(name) != nil {
			keys[key] = name
		}
	}
	if err := loader.BindFlags(cmd.Flags(), keys); err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configFile = loader.ConfigPath()

	out := a.logOut
	if out == nil {
		out = cmd.ErrOrStderr()
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: out})
	if err != nil {
		return err
	}
	a.log = log
	if a.configFile != "" {
		a.log.Debug().Str("path", a.configFile).Msg("config file loaded")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}
