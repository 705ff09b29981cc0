// Package engine orchestrates an inventory run: it reads the region catalog
// once, drives every collector over its scopes, contains per-scope failures,
// and assembles the ordered ScanResult handed to the exporter.
//
// The engine never calls the AWS SDK itself; it only sees the
// regions.Catalog and inventory.Collector interfaces.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/regions"
)

// catalogScope is the ScanFailure.Scope recorded when the catalog lookup fails.
const catalogScope = "catalog"

// Options configures an Inventory.
type Options struct {
	// Concurrency is the number of regions collected at once. Zero or one
	// keeps the run strictly sequential. Output order is identical either way.
	Concurrency int

	// Logger receives progress and failure events. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// Now is the clock used for StartedAt/FinishedAt. Defaults to time.Now.
	Now func() time.Time
}

// Inventory is the aggregator. It is safe to reuse across runs.
type Inventory struct {
	concurrency int
	log         zerolog.Logger
	now         func() time.Time
}

// NewInventory constructs an Inventory from opts.
func NewInventory(opts Options) *Inventory {
	inv := &Inventory{
		concurrency: opts.Concurrency,
		log:         zerolog.Nop(),
		now:         opts.Now,
	}
	if inv.concurrency < 1 {
		inv.concurrency = 1
	}
	if opts.Logger != nil {
		inv.log = *opts.Logger
	}
	if inv.now == nil {
		inv.now = time.Now
	}
	return inv
}

// Run executes one inventory pass.
//
// Global collectors run once, then every regional collector runs for each
// region in catalog order. Collectors are invoked in the order given; callers
// build that order with inventory.NewSet. A failing (scope, collector) pair is
// logged, recorded in ScanResult.Failures, and skipped; every other pair is
// still attempted. A failing catalog yields zero regions and the global
// collectors still run.
//
// Run returns an error only when ctx is cancelled, together with whatever
// was collected up to that point.
func (e *Inventory) Run(ctx context.Context, catalog regions.Catalog, collectors []inventory.Collector) (*models.ScanResult, error) {
	result := &models.ScanResult{StartedAt: e.now().UTC()}

	var global, regional []inventory.Collector
	for _, c := range collectors {
		if c.Global() {
			global = append(global, c)
		} else {
			regional = append(regional, c)
		}
	}

	// 1. Catalog, read once.
	regionList, err := catalog.ListRegions(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return e.finish(result), ctx.Err()
		}
		e.log.Warn().Err(err).Str("catalog", catalog.Name()).Msg("region catalog unavailable; continuing with global collectors only")
		f := models.FailureFrom(models.GlobalScope(), "", err)
		f.Scope = catalogScope
		if f.Op == "" {
			f.Op = "ListRegions"
		}
		result.Failures = append(result.Failures, f)
		regionList = nil
	}
	result.Regions = regionList
	e.log.Info().Str("catalog", catalog.Name()).Int("regions", len(regionList)).Msg("region catalog loaded")

	// 2. Global collectors, once each.
	if len(global) > 0 {
		slot := e.collectScope(ctx, models.GlobalScope(), global)
		result.Records = append(result.Records, slot.records...)
		result.Failures = append(result.Failures, slot.failures...)
	}
	if ctx.Err() != nil {
		return e.finish(result), ctx.Err()
	}

	// 3. Regional collectors, per region in catalog order.
	if len(regional) > 0 && len(regionList) > 0 {
		slots := e.collectRegions(ctx, regionList, regional)
		for _, slot := range slots {
			result.Records = append(result.Records, slot.records...)
			result.Failures = append(result.Failures, slot.failures...)
		}
	}
	if ctx.Err() != nil {
		return e.finish(result), ctx.Err()
	}

	return e.finish(result), nil
}

func (e *Inventory) finish(result *models.ScanResult) *models.ScanResult {
	result.FinishedAt = e.now().UTC()
	return result
}

// ---------------------------------------------------------------------------
// Scope collection
// ---------------------------------------------------------------------------

// scopeSlot holds the output of every collector for one scope.
type scopeSlot struct {
	records  []models.ResourceRecord
	failures []models.ScanFailure
}

// collectRegions fills one slot per region. With concurrency 1 it walks the
// regions in order; otherwise regions run in a bounded errgroup and each
// writes only its own slot, so the merged output matches the sequential run.
func (e *Inventory) collectRegions(ctx context.Context, regionList []string, collectors []inventory.Collector) []scopeSlot {
	slots := make([]scopeSlot, len(regionList))

	if e.concurrency == 1 {
		for i, region := range regionList {
			if ctx.Err() != nil {
				break
			}
			slots[i] = e.collectScope(ctx, models.RegionScope(region), collectors)
		}
		return slots
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, region := range regionList {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			slots[i] = e.collectScope(ctx, models.RegionScope(region), collectors)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures live in the slots
	return slots
}

// collectScope runs each collector for scope in order. Failures are logged
// and recorded; they never stop the remaining collectors.
func (e *Inventory) collectScope(ctx context.Context, scope models.Scope, collectors []inventory.Collector) scopeSlot {
	var slot scopeSlot
	for _, c := range collectors {
		if ctx.Err() != nil {
			return slot
		}
		records, err := c.Collect(ctx, scope)
		if err != nil {
			if ctx.Err() != nil {
				return slot
			}
			f := models.FailureFrom(scope, c.Service(), err)
			e.log.Warn().
				Str("service", string(c.Service())).
				Str("scope", scope.String()).
				Str("op", f.Op).
				Str("code", f.Code).
				Err(err).
				Msg("collection failed")
			slot.failures = append(slot.failures, f)
			continue
		}
		e.log.Info().
			Str("service", string(c.Service())).
			Str("scope", scope.String()).
			Int("records", len(records)).
			Msg("collected")
		slot.records = append(slot.records, records...)
	}
	return slot
}
