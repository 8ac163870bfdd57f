package loader

import (
	"fmt"
	"path/filepath"

	"github.com/ppiankov/takedownreport/internal/models"
)

// LoadTable reads an optional detail table from dataDir. A missing file yields
// an empty slice. Rows whose required columns are all blank are dropped.
func LoadTable(dataDir, filename string, required []string) ([]models.ThreatRecord, error) {
	path := filepath.Join(dataDir, filename)
	records := []models.ThreatRecord{}

	ok, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		return records, nil
	}

	file, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx := newHeaderIndex(file.Header, required)
	for _, row := range file.Rows {
		if rec, keep := buildRecord(idx, row, required); keep {
			records = append(records, rec)
		}
	}

	return records, nil
}

// buildRecord fills the canonical fields listed in required and reports
// whether any of them is non-empty.
func buildRecord(idx headerIndex, row []string, required []string) (models.ThreatRecord, bool) {
	var rec models.ThreatRecord
	keep := false

	for _, col := range required {
		v := idx.value(row, col)
		if v != "" {
			keep = true
		}
		switch col {
		case models.ColDomainURL:
			rec.DomainURL = v
		case models.ColReportedOn:
			rec.ReportedOn = v
		case models.ColLastUpdated:
			rec.LastUpdated = v
		case models.ColThreatCategory:
			rec.ThreatCategory = v
		case models.ColRemarks:
			rec.Remarks = v
		}
	}

	return rec, keep
}
