package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/takedownreport/internal/models"
)

// Status colors
var (
	colorTakenDown   = lipgloss.Color("#22C55E")
	colorUnderReview = lipgloss.Color("#EAB308")
	colorInProgress  = lipgloss.Color("#F97316")
	colorMuted       = lipgloss.Color("#888888")
	colorAccent      = lipgloss.Color("#7B68EE")
	colorBorder      = lipgloss.Color("#444444")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)
)

// statusStyle returns the lipgloss style for a table kind.
func statusStyle(kind models.TableKind) lipgloss.Style {
	switch kind {
	case models.TableTakenDown:
		return lipgloss.NewStyle().Foreground(colorTakenDown).Bold(true)
	case models.TableUnderReview:
		return lipgloss.NewStyle().Foreground(colorUnderReview).Bold(true)
	case models.TableInProgress:
		return lipgloss.NewStyle().Foreground(colorInProgress)
	default:
		return lipgloss.NewStyle()
	}
}
