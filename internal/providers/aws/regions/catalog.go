// Package regions supplies the ordered set of AWS regions an inventory run
// iterates. Two interchangeable catalogs are provided: a hand-maintained
// static list, and a dynamic one backed by EC2 DescribeRegions.
package regions

import "context"

// Catalog lists the regions to scan, in scan order. The returned slice is
// duplicate-free; order only matters for output determinism.
type Catalog interface {
	ListRegions(ctx context.Context) ([]string, error)

	// Name identifies the catalog in logs ("static" or "dynamic").
	Name() string
}

// Source selects a catalog implementation.
type Source string

const (
	SourceStatic  Source = "static"
	SourceDynamic Source = "dynamic"
)

// dedupe returns regions with blanks and repeats removed, keeping the first
// occurrence of each.
func dedupe(regions []string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
