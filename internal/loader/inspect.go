package loader

import (
	"fmt"
	"path/filepath"
)

// FileInspection describes how a CSV file in the data directory would be read.
type FileInspection struct {
	Filename   string   `json:"filename"`
	Path       string   `json:"path"`
	Exists     bool     `json:"exists"`
	Header     []string `json:"header,omitempty"`
	Resolved   []string `json:"resolved,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
	DataRows   int      `json:"data_rows"`
	Kept       int      `json:"kept"`
	Dropped    int      `json:"dropped"`
}

// Inspect reports which canonical columns of filename resolve and how many
// rows would be kept. A missing file is reported, not returned as an error.
func Inspect(dataDir, filename string, columns []string) (*FileInspection, error) {
	path := filepath.Join(dataDir, filename)
	fi := &FileInspection{Filename: filename, Path: path}

	ok, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		fi.Unresolved = append([]string(nil), columns...)
		return fi, nil
	}
	fi.Exists = true

	file, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	fi.Header = file.Header
	fi.DataRows = len(file.Rows)

	idx := newHeaderIndex(file.Header, columns)
	for _, col := range columns {
		if idx.resolved(col) {
			fi.Resolved = append(fi.Resolved, col)
		} else {
			fi.Unresolved = append(fi.Unresolved, col)
		}
	}

	for _, row := range file.Rows {
		if _, keep := buildRecord(idx, row, columns); keep {
			fi.Kept++
		} else {
			fi.Dropped++
		}
	}

	return fi, nil
}
