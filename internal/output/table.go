package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// ANSI color codes (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls the console preview.
type TableOptions struct {
	// Colored highlights records whose region could not be resolved.
	// Default false (CI-safe).
	Colored bool

	// Limit caps the number of rows printed. Zero prints every record.
	Limit int

	// IDLabel is the header of the resource column. Defaults to
	// "RESOURCE ID"; the tag-based export uses "RESOURCE ARN".
	IDLabel string

	// DetailsLabel is the header of the details column. Defaults to "DETAILS".
	DetailsLabel string
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// truncateField shortens s to at most max runes for ID/label columns.
// A single "~" replaces the last rune when truncation occurs.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "~"
}

// regionCell pads the region to width. Unknown regions are highlighted when
// colored; padding stays outside the ANSI codes so columns line up.
func regionCell(region string, width int, colored bool) string {
	text := truncateField(region, width)
	if !colored || region != models.UnknownRegion {
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len([]rune(text))
	if spaces < 0 {
		spaces = 0
	}
	return ansiYellow + text + ansiReset + strings.Repeat(" ", spaces)
}

// RenderTable writes a fixed-width preview of records to w.
//
// Column order:
//
//	REGION  SERVICE  RESOURCE ID  DETAILS
func RenderTable(w io.Writer, records []models.ResourceRecord, opts TableOptions) {
	if opts.IDLabel == "" {
		opts.IDLabel = "RESOURCE ID"
	}
	if opts.DetailsLabel == "" {
		opts.DetailsLabel = "DETAILS"
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No resources.")
		return
	}

	const (
		wRegion   = 15
		wService  = 10
		wResource = 45
		wDetails  = 50
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s",
		wRegion, "REGION", wService, "SERVICE", wResource, opts.IDLabel, wDetails, opts.DetailsLabel)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	shown := records
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}
	for _, r := range shown {
		var rb strings.Builder
		rb.WriteString(regionCell(r.Region, wRegion, opts.Colored))
		rb.WriteString(fmt.Sprintf("  %-*s", wService, truncateField(string(r.Service), wService)))
		rb.WriteString(fmt.Sprintf("  %-*s", wResource, truncateField(r.ResourceID, wResource)))
		rb.WriteString(fmt.Sprintf("  %s", ShortenMessage(r.Details, wDetails)))
		fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
	}
	if hidden := len(records) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "... %d more\n", hidden)
	}
}
