package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// SummaryOptions controls PrintSummary.
type SummaryOptions struct {
	// Path is the export destination shown in the header. Omitted when empty.
	Path string

	// Colored prints the failure count in red when non-zero.
	Colored bool
}

// PrintSummary writes a human-readable digest of a scan to w: run metadata,
// record counts per service and per region, and every contained failure.
func PrintSummary(w io.Writer, result *models.ScanResult, opts SummaryOptions) {
	if result == nil {
		return
	}

	profile := result.Profile
	if profile == "" {
		profile = "default"
	}
	fmt.Fprintf(w, "Profile:   %s\n", profile)
	if result.AccountID != "" {
		fmt.Fprintf(w, "Account:   %s\n", result.AccountID)
	}
	fmt.Fprintf(w, "Regions:   %d\n", len(result.Regions))
	fmt.Fprintf(w, "Records:   %d\n", len(result.Records))
	if !result.StartedAt.IsZero() && !result.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Duration:  %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	}
	if opts.Path != "" {
		fmt.Fprintf(w, "Output:    %s\n", opts.Path)
	}

	if len(result.Records) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-12s  %s\n", "SERVICE", "RECORDS")
		counts := result.CountByService()
		services := make([]string, 0, len(counts))
		for s := range counts {
			services = append(services, string(s))
		}
		sort.Strings(services)
		for _, s := range services {
			fmt.Fprintf(w, "%-12s  %d\n", s, counts[models.Service(s)])
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-16s  %s\n", "REGION", "RECORDS")
		for _, rc := range countByRegion(result.Records) {
			fmt.Fprintf(w, "%-16s  %d\n", rc.region, rc.count)
		}
	}

	if len(result.Failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	label := fmt.Sprintf("Failures (%d):", len(result.Failures))
	if opts.Colored {
		label = ansiRed + label + ansiReset
	}
	fmt.Fprintln(w, label)
	for _, f := range result.Failures {
		line := fmt.Sprintf("  %-16s", f.Scope)
		if f.Service != "" {
			line += fmt.Sprintf("  %-10s", f.Service)
		}
		if f.Op != "" {
			line += "  " + f.Op
		}
		if f.Code != "" {
			line += "  " + f.Code
		}
		line += "  " + ShortenMessage(f.Message, 80)
		fmt.Fprintln(w, line)
	}
}

type regionCount struct {
	region string
	count  int
}

// countByRegion counts records per region in order of first appearance.
func countByRegion(records []models.ResourceRecord) []regionCount {
	index := make(map[string]int)
	var out []regionCount
	for _, r := range records {
		i, ok := index[r.Region]
		if !ok {
			i = len(out)
			index[r.Region] = i
			out = append(out, regionCount{region: r.Region})
		}
		out[i].count++
	}
	return out
}
