package tui

import (
	"fmt"
	"strings"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 5

// renderDetail produces the detail view for a selected row.
func renderDetail(e *entry, width int) string {
	if e == nil {
		return styleDetailPanel.Width(width).Render("No row selected")
	}
	r := e.Record

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", statusStyle(e.Kind).Render(statusLabel(e.Kind)), orDash(r.DomainURL)))

	parts := make([]string, 0, 3)
	if r.ThreatCategory != "" {
		parts = append(parts, "Category: "+r.ThreatCategory)
	}
	if r.ReportedOn != "" {
		parts = append(parts, "Reported: "+r.ReportedOn)
	}
	if r.LastUpdated != "" {
		parts = append(parts, "Updated: "+r.LastUpdated)
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}

	if r.Remarks != "" {
		b.WriteString("Remarks: " + r.Remarks)
	}

	return styleDetailPanel.Width(width).Render(b.String())
}
