// Package tui is the interactive preview of a loaded data directory.
package tui

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/takedownreport/internal/models"
)

// mode represents the current UI interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilterTable
)

const defaultTableHeight = 15

// Model is the top-level Bubble Tea model for the preview TUI.
type Model struct {
	// Data (immutable after init)
	report  *models.ReportContext
	entries []entry

	// UI state
	table       table.Model
	searchInput textinput.Model
	filtered    []entry
	filters     filterState
	sortBy      sortField
	mode        mode
	tableCursor int
	width       int
	height      int
	statusMsg   string

	// clipboard keeps the last copied text; osc receives the OSC 52 sequence
	clipboard string
	osc       io.Writer
}

// New creates a new TUI model from a report context.
func New(report *models.ReportContext) Model {
	entries := flatten(report)
	t := newTable(buildRows(entries), defaultTableHeight)

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 64

	return Model{
		report:      report,
		entries:     entries,
		filtered:    entries,
		table:       t,
		searchInput: ti,
		sortBy:      sortByTable,
		mode:        modeNormal,
		width:       80,
		height:      24,
		osc:         os.Stdout,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		tableH := msg.Height - headerHeight - detailHeight - 3
		if tableH < 3 {
			tableH = 3
		}
		m.table.SetHeight(tableH)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	default:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilterTable:
		return m.handleFilterTableKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.FilterTable):
		m.mode = modeFilterTable
		m.tableCursor = 0
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortField(sortFieldCount)
		m.rebuildTable()
		m.statusMsg = fmt.Sprintf("Sort: %s", sortFieldName(m.sortBy))
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copySelected()
		return m, nil
	case key.Matches(msg, keys.ClearFilter):
		m.filters = filterState{}
		m.statusMsg = ""
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.SearchText = m.searchInput.Value()
		m.mode = modeNormal
		m.searchInput.Blur()
		m.rebuildTable()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.tableCursor > 0 {
			m.tableCursor--
		}
	case "down", "j":
		if m.tableCursor < len(models.TableSpecs) {
			m.tableCursor++
		}
	case "enter":
		if m.tableCursor == 0 {
			m.filters.Table = ""
		} else {
			m.filters.Table = models.TableSpecs[m.tableCursor-1].Kind
		}
		m.mode = modeNormal
		m.rebuildTable()
		if m.filters.Table != "" {
			m.statusMsg = fmt.Sprintf("Filter: %s", statusLabel(m.filters.Table))
		} else {
			m.statusMsg = ""
		}
	case "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m *Model) rebuildTable() {
	filtered := applyFilters(m.entries, m.filters)
	sortEntries(filtered, m.sortBy)
	m.filtered = filtered
	m.table.SetRows(buildRows(filtered))
}

func (m *Model) selected() *entry {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

// copySelected writes the selected row to the clipboard via OSC 52.
func (m *Model) copySelected() {
	e := m.selected()
	if e == nil {
		m.statusMsg = "Nothing to copy"
		return
	}
	r := e.Record
	text := fmt.Sprintf("[%s] %s", statusLabel(e.Kind), r.DomainURL)
	if r.ThreatCategory != "" {
		text += " (" + r.ThreatCategory + ")"
	}
	if r.Remarks != "" {
		text += " -- " + r.Remarks
	}
	m.clipboard = text
	m.statusMsg = "Copied!"
	if m.osc != nil {
		fmt.Fprintf(m.osc, "\033]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderHeader(m.report, m.width))
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if m.mode == modeFilterTable {
		b.WriteString(m.renderTableFilter())
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	b.WriteString(renderDetail(m.selected(), m.width))
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderTableFilter() string {
	var b strings.Builder
	b.WriteString("Filter by table:\n")

	options := []string{"All"}
	for _, spec := range models.TableSpecs {
		options = append(options, spec.Title)
	}
	for i, opt := range options {
		cursor := "  "
		if i == m.tableCursor {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, opt))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	left := "q:quit  /:search  t:table  s:sort  c:copy  esc:clear"
	right := fmt.Sprintf("%d/%d rows", len(m.filtered), len(m.entries))

	if m.statusMsg != "" {
		right = m.statusMsg + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program. Called from the preview command.
func Run(report *models.ReportContext) error {
	p := tea.NewProgram(New(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
