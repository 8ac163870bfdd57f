package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/takedownreport/internal/models"
)

// JSONReporter generates machine-readable JSON output
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes the full report context as JSON
func (r *JSONReporter) Generate(ctx *models.ReportContext) error {
	return r.write(ctx)
}

// GenerateSummaryOnly writes metadata and counts without table rows
func (r *JSONReporter) GenerateSummaryOnly(ctx *models.ReportContext) error {
	summary := struct {
		Meta                      models.ReportMeta   `json:"meta"`
		Counts                    models.ReportCounts `json:"counts"`
		KeyOutcomes               []string            `json:"key_outcomes"`
		ReactivatedDomainsDisplay string              `json:"reactivated_domains_display"`
	}{
		Meta:                      ctx.Meta,
		Counts:                    ctx.Counts,
		KeyOutcomes:               ctx.KeyOutcomes,
		ReactivatedDomainsDisplay: ctx.ReactivatedDomainsDisplay,
	}
	return r.write(summary)
}

func (r *JSONReporter) write(v interface{}) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}
