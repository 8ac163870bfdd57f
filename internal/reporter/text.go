package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

// TextReporter generates human-readable text summaries
type TextReporter struct {
	writer io.Writer
	// RowLimit caps rows printed per table; 0 prints counts only
	RowLimit int
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
	}
}

// Generate writes a text summary of the report context
func (r *TextReporter) Generate(ctx *models.ReportContext) error {
	r.printHeader()
	r.printMeta(ctx.Meta)
	r.printCounts(ctx)
	r.printOverview(ctx)

	if r.RowLimit > 0 {
		for _, spec := range models.TableSpecs {
			r.printTable(spec, ctx.Rows(spec.Kind))
		}
	}

	if len(ctx.KeyOutcomes) > 0 {
		r.printf("\nKey Outcomes:\n")
		for _, outcome := range ctx.KeyOutcomes {
			r.printf("  • %s\n", outcome)
		}
	}

	return nil
}

// printHeader prints the report header
func (r *TextReporter) printHeader() {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║         Cybersecurity Takedown Report      ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")
}

func (r *TextReporter) printMeta(meta models.ReportMeta) {
	r.printf("Report Date: %s\n", orDash(meta.ReportDate))
	r.printf("Prepared By: %s\n", orDash(meta.PreparedBy))
	r.printf("Reporting Window: %s\n\n", orDash(meta.ReportingWindow))
}

// printCounts prints the per-table counts
func (r *TextReporter) printCounts(ctx *models.ReportContext) {
	r.printf("Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Total Threats: %d\n", ctx.Counts.TotalThreats)
	r.printf("  Taken Down: %d\n", ctx.Counts.TakenDown)
	r.printf("  Under Review: %d\n", ctx.Counts.UnderReview)
	r.printf("  In Progress: %d\n\n", ctx.Counts.InProgress)
}

func (r *TextReporter) printOverview(ctx *models.ReportContext) {
	meta := ctx.Meta
	r.printf("Threat Overview:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Severity: %s\n", meta.ThreatSeverity)
	r.printf("  Dominant Type: %s\n", meta.DominantThreatType)
	r.printf("  Risk Exposure: %s\n", meta.RiskExposure)
	if meta.NewlyCompletedDomain != "" {
		r.printf("  Newly Completed: %s (%s)\n", meta.NewlyCompletedDomain, meta.NewlyCompletedDomainDescription)
	}
	if meta.NewlyUnderReviewDomain != "" {
		r.printf("  Newly Under Review: %s\n", meta.NewlyUnderReviewDomain)
	}
	r.printf("  Reactivated Domains: %s\n", ctx.ReactivatedDomainsDisplay)
}

// printTable prints up to RowLimit rows of one table
func (r *TextReporter) printTable(spec models.TableSpec, rows []models.ThreatRecord) {
	r.printf("\n%s (%d)\n", spec.Title, len(rows))
	r.printf("--------------------------------------------------\n")

	if len(rows) == 0 {
		r.printf("  (none)\n")
		return
	}

	limit := r.RowLimit
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		row := rows[i]
		r.printf("  %d. %s", i+1, orDash(row.DomainURL))
		if row.ThreatCategory != "" {
			r.printf(" [%s]", row.ThreatCategory)
		}
		if row.ReportedOn != "" {
			r.printf(" reported %s", row.ReportedOn)
		}
		r.printf("\n")
		if row.Remarks != "" {
			r.printf("     %s\n", row.Remarks)
		}
	}
	if len(rows) > limit {
		r.printf("  ... and %d more\n", len(rows)-limit)
	}
}

// printf is a helper to write formatted output
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
