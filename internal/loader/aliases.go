package loader

import (
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

const bom = "\ufeff"

// columnAliases maps each canonical column to the header spellings accepted for it.
// The canonical name itself always matches and is not listed.
var columnAliases = map[string][]string{
	models.ColDomainURL:      {"Domain / URL", "Domain/URL", "Domain URL", "Domain", "domain", "URL", "url"},
	models.ColReportedOn:     {"Reported On", "Reported on", "reported on", "Reported Date"},
	models.ColLastUpdated:    {"Last Updated", "Last updated", "last updated", "Updated On"},
	models.ColThreatCategory: {"Threat Category", "Threat category", "threat category", "Category"},
	models.ColRemarks:        {"Remarks", "Remark", "remark", "Notes"},

	"report_date":                        {"Report Date", "Report date"},
	"prepared_by":                        {"Prepared By", "Prepared by"},
	"reporting_window":                   {"Reporting Window", "Reporting window"},
	"newly_completed_domain":             {"Newly Completed Domain"},
	"newly_completed_domain_description": {"Newly Completed Domain Description"},
	"newly_under_review_domain":          {"Newly Under Review Domain"},
	"reactivated_domains":                {"Reactivated Domains", "Reactivated domains"},
	"threat_severity":                    {"Threat Severity", "Threat severity"},
	"dominant_threat_type":               {"Dominant Threat Type", "Dominant threat type"},
	"risk_exposure":                      {"Risk Exposure", "Risk exposure"},
	"closing_note":                       {"Closing Note", "Closing note"},
}

// Aliases returns the accepted header spellings for a canonical column,
// canonical name first.
func Aliases(column string) []string {
	return append([]string{column}, columnAliases[column]...)
}

// normalizeHeader strips a byte-order mark from every header name.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimPrefix(h, bom)
	}
	return out
}

// headerIndex resolves canonical columns to positions in a normalized header.
// Unresolved columns are absent from the result.
type headerIndex map[string]int

func newHeaderIndex(header []string, columns []string) headerIndex {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		// a repeated header name resolves to its first position
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	idx := make(headerIndex, len(columns))
	for _, col := range columns {
		for _, name := range Aliases(col) {
			if pos, ok := positions[name]; ok {
				idx[col] = pos
				break
			}
		}
	}
	return idx
}

// value returns the trimmed cell for a canonical column, or "" when the
// column is unresolved or the row is short.
func (h headerIndex) value(row []string, column string) string {
	pos, ok := h[column]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// resolved reports whether a canonical column was found in the header.
func (h headerIndex) resolved(column string) bool {
	_, ok := h[column]
	return ok
}
