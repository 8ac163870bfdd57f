package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// csvFile is a parsed CSV file with a normalized header.
type csvFile struct {
	Header []string
	Rows   [][]string
}

// readCSV parses a comma-delimited UTF-8 file. A leading byte-order mark is
// consumed by the decoder; an empty file yields a nil header and no rows.
// Open errors are returned as is.
func readCSV(path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := csv.NewReader(transform.NewReader(f, decoder))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &csvFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	out := &csvFile{Header: normalizeHeader(header)}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		out.Rows = append(out.Rows, record)
	}

	return out, nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
