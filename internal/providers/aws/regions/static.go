package regions

import "context"

// commercialRegions is every commercially available region, excluding the
// GovCloud and China partitions.
var commercialRegions = []string{
	"us-east-1",      // N. Virginia
	"us-east-2",      // Ohio
	"us-west-1",      // N. California
	"us-west-2",      // Oregon
	"af-south-1",     // Cape Town
	"ap-east-1",      // Hong Kong
	"ap-south-1",     // Mumbai
	"ap-south-2",     // Hyderabad
	"ap-southeast-1", // Singapore
	"ap-southeast-2", // Sydney
	"ap-southeast-3", // Jakarta
	"ap-southeast-4", // Melbourne
	"ap-northeast-1", // Tokyo
	"ap-northeast-2", // Seoul
	"ap-northeast-3", // Osaka
	"ca-central-1",   // Canada Central
	"eu-central-1",   // Frankfurt
	"eu-central-2",   // Zurich
	"eu-west-1",      // Ireland
	"eu-west-2",      // London
	"eu-west-3",      // Paris
	"eu-north-1",     // Stockholm
	"eu-south-1",     // Milan
	"eu-south-2",     // Spain
	"il-central-1",   // Tel Aviv
	"me-south-1",     // Bahrain
	"me-central-1",   // UAE
	"sa-east-1",      // São Paulo
}

// restrictedRegions are the isolated partitions. They need separate
// credentials and are only scanned when explicitly configured.
var restrictedRegions = []string{
	"us-gov-east-1",
	"us-gov-west-1",
	"cn-north-1",
	"cn-northwest-1",
}

// CommercialRegions returns a copy of the commercial region list.
func CommercialRegions() []string {
	return append([]string(nil), commercialRegions...)
}

// RestrictedRegions returns a copy of the GovCloud and China region list.
func RestrictedRegions() []string {
	return append([]string(nil), restrictedRegions...)
}

// Static is a fixed region list. It never fails and makes no network calls.
type Static struct {
	regions []string
}

// NewStatic returns a catalog over regions, deduplicated in first-seen
// order. With no regions it falls back to CommercialRegions.
func NewStatic(regions ...string) *Static {
	list := dedupe(regions)
	if len(list) == 0 {
		list = CommercialRegions()
	}
	return &Static{regions: list}
}

// NewCommercial returns the commercial catalog, optionally extended with the
// restricted partitions.
func NewCommercial(includeRestricted bool) *Static {
	list := CommercialRegions()
	if includeRestricted {
		list = append(list, restrictedRegions...)
	}
	return NewStatic(list...)
}

// ListRegions implements Catalog.
func (s *Static) ListRegions(_ context.Context) ([]string, error) {
	return append([]string(nil), s.regions...), nil
}

// Name implements Catalog.
func (s *Static) Name() string { return string(SourceStatic) }
