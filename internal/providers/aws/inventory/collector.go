// Package inventory implements the per-service resource collectors.
//
// Every collector queries exactly one AWS listing API, drains its pagination
// and normalises the results into models.ResourceRecord. Collectors never
// fail on a single item; if the listing call itself fails the whole scope is
// reported as a *models.ProviderQueryError and the caller decides what to do.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// ErrInvalidPageSize is returned for a page size of zero or less.
var ErrInvalidPageSize = errors.New("invalid page size")

// Collector lists one kind of resource.
type Collector interface {
	// Service identifies the records this collector produces.
	Service() models.Service

	// Global reports whether the collector is invoked once per run with
	// models.GlobalScope() instead of once per region.
	Global() bool

	// Collect returns every resource visible in scope, in API order.
	Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error)
}

// Options configures collector construction.
type Options struct {
	// Config is the base SDK configuration. Its region is replaced per scope.
	Config aws.Config

	// PageSize is the requested number of items per API page. Each API
	// clamps it to the range it accepts.
	PageSize int32

	// Factory builds region-scoped clients. Defaults to NewClients.
	Factory ClientFactory

	// Logger receives per-item lookup failures. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// ValidatePageSize rejects page sizes of zero or less and sizes that do not
// fit the int32 the AWS APIs take.
func ValidatePageSize(n int) error {
	if n <= 0 || n > math.MaxInt32 {
		return fmt.Errorf("%w: must be between 1 and %d (got %d)", ErrInvalidPageSize, math.MaxInt32, n)
	}
	return nil
}

// declaredOrder is the order collectors run in within one scope. S3 comes
// first because account-wide resources are reported before regional ones.
var declaredOrder = []models.Service{
	models.ServiceS3,
	models.ServiceEC2,
	models.ServiceRDS,
	models.ServiceELB,
	models.ServiceCloudWatch,
	models.ServiceTagging,
}

// DefaultServices is the service set of a service-specific inventory.
func DefaultServices() []models.Service {
	return []models.Service{models.ServiceS3, models.ServiceEC2, models.ServiceRDS}
}

// ParseService maps a user-supplied name ("ec2", "RDS", "cloudwatch") to a
// Service.
func ParseService(name string) (models.Service, error) {
	s := models.Service(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range declaredOrder {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown service %q", name)
}

// New returns the collector for service.
func New(service models.Service, opts Options) (Collector, error) {
	if err := ValidatePageSize(int(opts.PageSize)); err != nil {
		return nil, err
	}
	b := newBase(opts)

	switch service {
	case models.ServiceS3:
		return &S3Collector{base: b}, nil
	case models.ServiceEC2:
		return &EC2Collector{base: b}, nil
	case models.ServiceRDS:
		return &RDSCollector{base: b}, nil
	case models.ServiceELB:
		return &LoadBalancerCollector{base: b}, nil
	case models.ServiceCloudWatch:
		return &AlarmCollector{base: b}, nil
	case models.ServiceTagging:
		return &TaggedResourceCollector{base: b}, nil
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}
}

// NewSet returns one collector per distinct service, sorted into declared
// order regardless of the order services were given in.
func NewSet(services []models.Service, opts Options) ([]Collector, error) {
	rank := make(map[models.Service]int, len(declaredOrder))
	for i, s := range declaredOrder {
		rank[s] = i
	}

	seen := make(map[models.Service]bool, len(services))
	var ordered []models.Service
	for _, s := range services {
		if _, ok := rank[s]; !ok {
			return nil, fmt.Errorf("unknown service %q", s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return rank[ordered[i]] < rank[ordered[j]] })

	collectors := make([]Collector, 0, len(ordered))
	for _, s := range ordered {
		c, err := New(s, opts)
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, c)
	}
	return collectors, nil
}

// ---------------------------------------------------------------------------
// Shared plumbing
// ---------------------------------------------------------------------------

// base carries what every collector needs: the base config, the client
// factory, and the requested page size.
type base struct {
	cfg      aws.Config
	factory  ClientFactory
	pageSize int32
	log      zerolog.Logger
}

func newBase(opts Options) base {
	b := base{
		cfg:      opts.Config,
		factory:  opts.Factory,
		pageSize: opts.PageSize,
		log:      zerolog.Nop(),
	}
	if b.factory == nil {
		b.factory = NewClients
	}
	if opts.Logger != nil {
		b.log = *opts.Logger
	}
	return b
}

// clientsFor returns clients bound to region.
func (b base) clientsFor(region string) *Clients {
	cfg := b.cfg.Copy()
	cfg.Region = region
	return b.factory(cfg)
}

// regionOf validates that scope names a region and returns it.
func regionOf(service models.Service, scope models.Scope) (string, error) {
	if scope.Global || scope.Region == "" {
		return "", fmt.Errorf("%s collector is regional and needs a region scope, got %q", service, scope)
	}
	return scope.Region, nil
}

// clampPageSize fits n into the [lo, hi] window an API accepts.
func clampPageSize(n, lo, hi int32) int32 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
