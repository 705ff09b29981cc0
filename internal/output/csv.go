package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// DefaultPath is the export destination when none is configured.
const DefaultPath = "aws_inventory.csv"

// Schema selects the CSV column layout.
type Schema string

const (
	// SchemaTags is the tag-based export: Region,ResourceARN,Tags.
	SchemaTags Schema = "tags"

	// SchemaServices is the service-specific export:
	// Region,Service,ResourceId,Details.
	SchemaServices Schema = "services"
)

// Header returns the column names of the schema.
func (s Schema) Header() ([]string, error) {
	switch s {
	case SchemaTags:
		return []string{"Region", "ResourceARN", "Tags"}, nil
	case SchemaServices:
		return []string{"Region", "Service", "ResourceId", "Details"}, nil
	default:
		return nil, fmt.Errorf("unknown csv schema %q", s)
	}
}

// row projects a record onto the schema's columns.
func (s Schema) row(r models.ResourceRecord) []string {
	if s == SchemaTags {
		return []string{r.Region, r.ResourceID, r.Details}
	}
	return []string{r.Region, string(r.Service), r.ResourceID, r.Details}
}

// WriteError is returned when the export file cannot be opened, written,
// flushed, or closed. The export step is all-or-nothing from the caller's
// point of view: any WriteError means the run failed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write inventory to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteCSV truncates (or creates) path and writes the header followed by one
// row per record, in slice order. The header is written even when records is
// empty. Every failure, including a failed close, is a *WriteError.
func WriteCSV(path string, schema Schema, records []models.ResourceRecord) (err error) {
	if _, herr := schema.Header(); herr != nil {
		return &WriteError{Path: path, Err: herr}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	if err := EncodeCSV(f, schema, records); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// EncodeCSV writes the header and records to w using RFC 4180 quoting and
// "\n" line endings. It flushes before returning and reports flush errors.
func EncodeCSV(w io.Writer, schema Schema, records []models.ResourceRecord) error {
	header, err := schema.Header()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(schema.row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
