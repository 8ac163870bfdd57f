package tui

import (
	"sort"
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

// entry is one table row tagged with the table it came from.
type entry struct {
	Kind   models.TableKind
	Order  int // position across all tables in report order
	Record models.ThreatRecord
}

// flatten collects the rows of every table in report order.
func flatten(ctx *models.ReportContext) []entry {
	var entries []entry
	for _, spec := range models.TableSpecs {
		for _, rec := range ctx.Rows(spec.Kind) {
			entries = append(entries, entry{Kind: spec.Kind, Order: len(entries), Record: rec})
		}
	}
	return entries
}

// filterState holds current active filters.
type filterState struct {
	Table      models.TableKind
	SearchText string
}

// sortField enumerates columns that can be sorted.
type sortField int

const (
	sortByTable sortField = iota
	sortByDomain
	sortByCategory
	sortByReported
)

// sortFieldCount is the total number of sortable columns.
const sortFieldCount = 4

// applyFilters returns entries matching all active filters.
func applyFilters(entries []entry, f filterState) []entry {
	result := make([]entry, 0, len(entries))
	searchLower := strings.ToLower(f.SearchText)

	for _, e := range entries {
		if f.Table != "" && e.Kind != f.Table {
			continue
		}
		if searchLower != "" && !matchesSearch(e.Record, searchLower) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func matchesSearch(r models.ThreatRecord, searchLower string) bool {
	return strings.Contains(strings.ToLower(r.DomainURL), searchLower) ||
		strings.Contains(strings.ToLower(r.ThreatCategory), searchLower) ||
		strings.Contains(strings.ToLower(r.Remarks), searchLower) ||
		strings.Contains(strings.ToLower(r.ReportedOn), searchLower)
}

// sortEntries sorts in place. Ties keep report order.
func sortEntries(entries []entry, field sortField) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch field {
		case sortByDomain:
			return strings.ToLower(a.Record.DomainURL) < strings.ToLower(b.Record.DomainURL)
		case sortByCategory:
			return strings.ToLower(a.Record.ThreatCategory) < strings.ToLower(b.Record.ThreatCategory)
		case sortByReported:
			return a.Record.ReportedOn < b.Record.ReportedOn
		default:
			return a.Order < b.Order
		}
	})
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortByTable:
		return "report order"
	case sortByDomain:
		return "domain"
	case sortByCategory:
		return "category"
	case sortByReported:
		return "reported on"
	default:
		return "unknown"
	}
}
