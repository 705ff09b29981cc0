package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/config"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/engine"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/output"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/regions"
)

func newInventoryCmd(a *app) *cobra.Command {
	var (
		preview      bool
		previewLimit int
		color        bool
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory AWS resources across regions and export them as CSV",
		Long: `Walks every region in the catalog, lists the selected resource types,
and writes one CSV row per resource. A failing region or service is logged
and skipped; the export always reflects everything that could be read.

Modes:
  services  Region,Service,ResourceId,Details for the selected services
  tags      Region,ResourceARN,Tags from the Resource Groups Tagging API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInventory(cmd, inventoryView{
				preview:      preview,
				previewLimit: previewLimit,
				color:        color,
			})
		},
	}

	f := cmd.Flags()
	f.String("mode", config.ModeServices, `Inventory mode: "services" or "tags"`)
	f.StringSlice("services", nil, "Services to list in services mode (s3, ec2, rds, elb, cloudwatch)")
	f.StringP("output", "o", output.DefaultPath, "CSV output path")
	f.StringSlice("regions", nil, "Scan exactly these regions instead of the catalog")
	f.String("region-source", string(regions.SourceStatic), `Region catalog: "static" or "dynamic"`)
	f.Bool("include-restricted", false, "Add GovCloud and China regions to the static catalog")
	f.Int("page-size", inventory.DefaultPageSize, "Requested items per API page")
	f.Int("concurrency", 1, "Regions collected at once")
	f.BoolVar(&preview, "preview", false, "Print the collected records as a table")
	f.IntVar(&previewLimit, "preview-limit", 50, "Maximum rows in the preview (0 = all)")
	f.BoolVar(&color, "color", false, "Color unresolved regions and failures")
	return cmd
}

// inventoryView holds presentation-only flags that never reach Config.
type inventoryView struct {
	preview      bool
	previewLimit int
	color        bool
}

func (a *app) runInventory(cmd *cobra.Command, view inventoryView) error {
	ctx := cmd.Context()
	cfg := a.cfg

	profile, err := a.provider.LoadProfile(ctx, cfg.AWS.Profile)
	if err != nil {
		return err
	}
	if _, err := a.provider.ResolveAccountID(ctx, profile); err != nil {
		// Not fatal: each collector reports its own access failures.
		a.log.Warn().Err(err).Str("profile", profile.ProfileName).Msg("could not resolve account ID")
	}

	catalog := a.catalog(profile)
	collectors, err := a.collectors(profile)
	if err != nil {
		return err
	}

	a.log.Info().
		Str("profile", profile.ProfileName).
		Str("mode", cfg.Inventory.Mode).
		Str("catalog", catalog.Name()).
		Int("collectors", len(collectors)).
		Int("concurrency", cfg.Inventory.Concurrency).
		Msg("inventory started")

	result, runErr := engine.NewInventory(engine.Options{
		Concurrency: cfg.Inventory.Concurrency,
		Logger:      &a.log,
	}).Run(ctx, catalog, collectors)
	result.Profile = profile.ProfileName
	result.AccountID = profile.AccountID

	if err := output.WriteCSV(cfg.Inventory.Output, cfg.Schema(), result.Records); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if view.preview {
		opts := output.TableOptions{Colored: view.color, Limit: view.previewLimit}
		if cfg.Inventory.Mode == config.ModeTags {
			opts.IDLabel = "RESOURCE ARN"
			opts.DetailsLabel = "TAGS"
		}
		output.RenderTable(out, result.Records, opts)
		fmt.Fprintln(out)
	}
	output.PrintSummary(out, result, output.SummaryOptions{Path: cfg.Inventory.Output, Colored: view.color})

	if runErr != nil {
		return fmt.Errorf("inventory interrupted, partial results written: %w", runErr)
	}
	return nil
}

// catalog picks the region source: explicit regions win, then the configured
// catalog.
func (a *app) catalog(profile *common.ProfileConfig) regions.Catalog {
	cfg := a.cfg.AWS
	if len(cfg.Regions) > 0 {
		return regions.NewStatic(cfg.Regions...)
	}
	if regions.Source(cfg.RegionSource) == regions.SourceDynamic {
		set := a.regionClients(a.provider.ConfigForRegion(profile, regions.AnchorRegion))
		return regions.NewDynamic(set.EC2)
	}
	return regions.NewCommercial(cfg.IncludeRestricted)
}

// collectors builds the collector set for the configured mode.
func (a *app) collectors(profile *common.ProfileConfig) ([]inventory.Collector, error) {
	var services []models.Service
	if a.cfg.Inventory.Mode == config.ModeTags {
		services = []models.Service{models.ServiceTagging}
	} else {
		for _, name := range a.cfg.Inventory.Services {
			s, err := inventory.ParseService(name)
			if err != nil {
				return nil, err
			}
			services = append(services, s)
		}
	}
	return inventory.NewSet(services, inventory.Options{
		Config:   profile.Config,
		PageSize: int32(a.cfg.Inventory.PageSize),
		Factory:  a.inventoryClient,
		Logger:   &a.log,
	})
}
