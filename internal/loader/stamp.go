package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/takedownreport/internal/models"
)

// ReportDateLayout is the format written by StampReportDate, e.g. "19 October 2026".
const ReportDateLayout = "02 January 2006"

// StampReportDate sets report_date on every row of report_meta.csv to now.
// It returns false without error when the file is absent, has no data rows,
// or has no report_date column.
func StampReportDate(dataDir string, now time.Time) (bool, error) {
	path := filepath.Join(dataDir, models.MetaFile)

	ok, err := fileExists(path)
	if err != nil || !ok {
		return false, err
	}

	file, err := readCSV(path)
	if err != nil {
		return false, err
	}
	if len(file.Rows) == 0 {
		return false, nil
	}

	col, ok := newHeaderIndex(file.Header, []string{"report_date"})["report_date"]
	if !ok {
		return false, nil
	}

	today := now.Format(ReportDateLayout)
	for i, row := range file.Rows {
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = today
		file.Rows[i] = row
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(file.Header); err != nil {
		return false, fmt.Errorf("failed to encode header: %w", err)
	}
	if err := w.WriteAll(file.Rows); err != nil {
		return false, fmt.Errorf("failed to encode rows: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}
