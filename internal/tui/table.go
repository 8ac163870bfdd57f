package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/takedownreport/internal/models"
)

var tableColumns = []table.Column{
	{Title: "Status", Width: 13},
	{Title: "Domain / URL", Width: 36},
	{Title: "Category", Width: 18},
	{Title: "Reported", Width: 14},
}

// buildRows converts entries to table rows.
func buildRows(entries []entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			statusLabel(e.Kind),
			truncate(e.Record.DomainURL, tableColumns[1].Width),
			truncate(e.Record.ThreatCategory, tableColumns[2].Width),
			truncate(e.Record.ReportedOn, tableColumns[3].Width),
		})
	}
	return rows
}

// statusLabel returns the table title for a kind.
func statusLabel(kind models.TableKind) string {
	if spec, ok := models.GetTableSpec(kind); ok {
		return spec.Title
	}
	return string(kind)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-len(ellipsis)]) + ellipsis
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
