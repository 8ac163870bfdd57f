package validator

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/models"
)

// ValidationError represents a validation failure
type ValidationError struct {
	Target string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid %s:\n  - %s", e.Target, strings.Join(e.Errors, "\n  - "))
}

// Result describes the shape of a data directory
type Result struct {
	DataDir  string                   `json:"data_dir"`
	Meta     *loader.FileInspection   `json:"meta"`
	Tables   []*loader.FileInspection `json:"tables"`
	Errors   []string                 `json:"errors,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// Valid reports whether generation would succeed on this directory
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns a *ValidationError when the directory is invalid
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Target: "data directory " + r.DataDir, Errors: r.Errors}
}

// Validator checks data directories before generation
type Validator struct{}

// New creates a new validator
func New() *Validator {
	return &Validator{}
}

// ValidateDataDir inspects the metadata file and each detail table.
// Only presence and shape are checked; cell contents are not.
func (v *Validator) ValidateDataDir(dataDir string) (*Result, error) {
	res := &Result{DataDir: dataDir}

	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		res.Errors = append(res.Errors, fmt.Sprintf("Data directory '%s' does not exist or is not a directory", dataDir))
		return res, nil
	}

	meta, err := loader.Inspect(dataDir, models.MetaFile, loader.MetaColumns())
	if err != nil {
		return nil, err
	}
	res.Meta = meta
	v.checkMeta(res, meta)

	for _, spec := range models.TableSpecs {
		fi, err := loader.Inspect(dataDir, spec.Filename, spec.Columns)
		if err != nil {
			return nil, err
		}
		res.Tables = append(res.Tables, fi)
		v.checkTable(res, spec, fi)
	}

	return res, nil
}

func (v *Validator) checkMeta(res *Result, meta *loader.FileInspection) {
	switch {
	case !meta.Exists:
		res.Errors = append(res.Errors, fmt.Sprintf("Missing required file: '%s'", models.MetaFile))
		return
	case meta.DataRows == 0:
		res.Errors = append(res.Errors, fmt.Sprintf("File '%s' has no data rows", models.MetaFile))
		return
	}

	if len(meta.Resolved) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("File '%s' has no recognised columns; every field will use its default", models.MetaFile))
	}
	if meta.DataRows > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("File '%s' has %d data rows; only the first is used", models.MetaFile, meta.DataRows))
	}
}

func (v *Validator) checkTable(res *Result, spec models.TableSpec, fi *loader.FileInspection) {
	if !fi.Exists {
		return
	}

	if len(fi.Resolved) == 0 && len(fi.Header) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Table '%s' has no recognised columns; all rows will be dropped", spec.Filename))
		return
	}
	if len(fi.Unresolved) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Table '%s' is missing columns: %s", spec.Filename, strings.Join(fi.Unresolved, ", ")))
	}
	if fi.Dropped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Table '%s' has %d blank row(s) that will be skipped", spec.Filename, fi.Dropped))
	}
}
