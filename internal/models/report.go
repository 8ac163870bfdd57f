package models

// TableKind identifies one of the detail tables of a takedown report
type TableKind string

const (
	TableTakenDown   TableKind = "taken_down"
	TableUnderReview TableKind = "under_review"
	TableInProgress  TableKind = "in_progress"
)

// Canonical column names shared by the detail tables
const (
	ColDomainURL      = "domain_url"
	ColReportedOn     = "reported_on"
	ColLastUpdated    = "last_updated"
	ColThreatCategory = "threat_category"
	ColRemarks        = "remarks"
)

// MetaFile is the required metadata file name inside a data directory
const MetaFile = "report_meta.csv"

// TableSpec describes where a detail table lives and which canonical columns it carries
type TableSpec struct {
	Kind     TableKind
	Filename string
	Columns  []string
	Title    string
}

// TableSpecs lists the detail tables in report order
var TableSpecs = []TableSpec{
	{
		Kind:     TableTakenDown,
		Filename: "taken_down.csv",
		Columns:  []string{ColDomainURL, ColReportedOn, ColLastUpdated, ColThreatCategory, ColRemarks},
		Title:    "Taken Down",
	},
	{
		Kind:     TableUnderReview,
		Filename: "under_review.csv",
		Columns:  []string{ColDomainURL, ColReportedOn, ColThreatCategory, ColRemarks},
		Title:    "Under Review",
	},
	{
		Kind:     TableInProgress,
		Filename: "in_progress.csv",
		Columns:  []string{ColDomainURL, ColReportedOn, ColThreatCategory, ColRemarks},
		Title:    "In Progress",
	},
}

// GetTableSpec returns the spec for a table kind
func GetTableSpec(kind TableKind) (TableSpec, bool) {
	for _, spec := range TableSpecs {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return TableSpec{}, false
}

// ReportMeta is the single metadata row of a report run
type ReportMeta struct {
	ReportDate                      string   `json:"report_date"`
	PreparedBy                      string   `json:"prepared_by"`
	ReportingWindow                 string   `json:"reporting_window"`
	NewlyCompletedDomain            string   `json:"newly_completed_domain"`
	NewlyCompletedDomainDescription string   `json:"newly_completed_domain_description"`
	NewlyUnderReviewDomain          string   `json:"newly_under_review_domain"`
	ReactivatedDomains              []string `json:"reactivated_domains"`
	ThreatSeverity                  string   `json:"threat_severity"`
	DominantThreatType              string   `json:"dominant_threat_type"`
	RiskExposure                    string   `json:"risk_exposure"`
	ClosingNote                     string   `json:"closing_note"`
}

// ThreatRecord is one retained row of a detail table.
// Fields a table does not track stay empty.
type ThreatRecord struct {
	DomainURL      string `json:"domain_url"`
	ReportedOn     string `json:"reported_on"`
	LastUpdated    string `json:"last_updated,omitempty"`
	ThreatCategory string `json:"threat_category"`
	Remarks        string `json:"remarks"`
}

// Field returns the value of a canonical column
func (r ThreatRecord) Field(column string) string {
	switch column {
	case ColDomainURL:
		return r.DomainURL
	case ColReportedOn:
		return r.ReportedOn
	case ColLastUpdated:
		return r.LastUpdated
	case ColThreatCategory:
		return r.ThreatCategory
	case ColRemarks:
		return r.Remarks
	default:
		return ""
	}
}

// ReportCounts holds row counts derived from the detail tables
type ReportCounts struct {
	TakenDown    int `json:"taken_down"`
	UnderReview  int `json:"under_review"`
	InProgress   int `json:"in_progress"`
	TotalThreats int `json:"total_threats"`
}

// ReportContext is everything the report template needs for one run
type ReportContext struct {
	Meta                      ReportMeta     `json:"meta"`
	Counts                    ReportCounts   `json:"counts"`
	KeyOutcomes               []string       `json:"key_outcomes"`
	TakenDownRows             []ThreatRecord `json:"taken_down_rows"`
	UnderReviewRows           []ThreatRecord `json:"under_review_rows"`
	InProgressRows            []ThreatRecord `json:"in_progress_rows"`
	ReactivatedDomainsDisplay string         `json:"reactivated_domains_display"`
}

// Rows returns the rows of a table kind
func (c *ReportContext) Rows(kind TableKind) []ThreatRecord {
	switch kind {
	case TableTakenDown:
		return c.TakenDownRows
	case TableUnderReview:
		return c.UnderReviewRows
	case TableInProgress:
		return c.InProgressRows
	default:
		return nil
	}
}
