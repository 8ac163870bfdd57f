package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

var (
	// ErrMissingFile is returned when the metadata file does not exist.
	ErrMissingFile = errors.New("missing file")

	// ErrEmptyData is returned when the metadata file has no data rows.
	ErrEmptyData = errors.New("empty data")
)

// Default values for optional metadata fields
const (
	DefaultCompletedDomainDescription = "The domain has been successfully taken down and is no longer accessible."
	DefaultThreatSeverity             = "Predominantly High / Critical"
	DefaultDominantThreatType         = "Phishing Websites"
	DefaultRiskExposure               = "Nil (Closed) / Controlled (Open)"
	DefaultClosingNote                = "All known high-risk assets have been neutralized or are under strict containment and monitoring."
)

// metaField binds a metadata column to its fallback and the struct field it fills.
type metaField struct {
	column   string
	fallback string
	assign   func(*models.ReportMeta, string)
}

var metaFields = []metaField{
	{"report_date", "", func(m *models.ReportMeta, v string) { m.ReportDate = v }},
	{"prepared_by", "", func(m *models.ReportMeta, v string) { m.PreparedBy = v }},
	{"reporting_window", "", func(m *models.ReportMeta, v string) { m.ReportingWindow = v }},
	{"newly_completed_domain", "", func(m *models.ReportMeta, v string) { m.NewlyCompletedDomain = v }},
	{"newly_completed_domain_description", DefaultCompletedDomainDescription, func(m *models.ReportMeta, v string) { m.NewlyCompletedDomainDescription = v }},
	{"newly_under_review_domain", "", func(m *models.ReportMeta, v string) { m.NewlyUnderReviewDomain = v }},
	{"reactivated_domains", "", func(m *models.ReportMeta, v string) { m.ReactivatedDomains = splitDomains(v) }},
	{"threat_severity", DefaultThreatSeverity, func(m *models.ReportMeta, v string) { m.ThreatSeverity = v }},
	{"dominant_threat_type", DefaultDominantThreatType, func(m *models.ReportMeta, v string) { m.DominantThreatType = v }},
	{"risk_exposure", DefaultRiskExposure, func(m *models.ReportMeta, v string) { m.RiskExposure = v }},
	{"closing_note", DefaultClosingNote, func(m *models.ReportMeta, v string) { m.ClosingNote = v }},
}

// MetaColumns returns the metadata column names in file order.
func MetaColumns() []string {
	cols := make([]string, len(metaFields))
	for i, f := range metaFields {
		cols[i] = f.column
	}
	return cols
}

// LoadMeta reads the first data row of report_meta.csv in dataDir.
// Rows after the first are ignored.
func LoadMeta(dataDir string) (*models.ReportMeta, error) {
	path := filepath.Join(dataDir, models.MetaFile)

	ok, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}

	file, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(file.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrEmptyData, path)
	}

	idx := newHeaderIndex(file.Header, MetaColumns())
	row := file.Rows[0]

	meta := &models.ReportMeta{}
	for _, f := range metaFields {
		v := idx.value(row, f.column)
		if v == "" {
			v = f.fallback
		}
		f.assign(meta, v)
	}

	return meta, nil
}

// splitDomains parses a semicolon-separated list, dropping blank entries.
func splitDomains(raw string) []string {
	domains := []string{}
	for _, part := range strings.Split(raw, ";") {
		if d := strings.TrimSpace(part); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
