package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 6

// renderHeader summarises the report metadata and counts.
func renderHeader(ctx *models.ReportContext, width int) string {
	meta := ctx.Meta
	var b strings.Builder

	// Line 1: title and date
	b.WriteString(fmt.Sprintf("Takedown Report  %s", orDash(meta.ReportDate)))
	if meta.ReportingWindow != "" {
		b.WriteString(fmt.Sprintf("  (%s)", meta.ReportingWindow))
	}
	b.WriteString("\n")

	// Line 2: counts per table
	counts := []string{fmt.Sprintf("Total: %d", ctx.Counts.TotalThreats)}
	for _, spec := range models.TableSpecs {
		label := fmt.Sprintf("%s: %d", spec.Title, len(ctx.Rows(spec.Kind)))
		counts = append(counts, statusStyle(spec.Kind).Render(label))
	}
	b.WriteString(strings.Join(counts, "  "))
	b.WriteString("\n")

	// Line 3: threat overview
	b.WriteString(fmt.Sprintf("Severity: %s  Type: %s", meta.ThreatSeverity, meta.DominantThreatType))
	b.WriteString("\n")

	// Line 4: reactivated
	b.WriteString(fmt.Sprintf("Reactivated: %s", ctx.ReactivatedDomainsDisplay))

	return styleHeader.Width(width).Render(b.String())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
