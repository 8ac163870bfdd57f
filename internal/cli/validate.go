package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/validator"
)

var (
	validateDataDir string
	validateFormat  string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the shape of a data directory",
	Long: `Validate checks a data directory before generation: report_meta.csv is
present and has a data row, which optional tables exist, which canonical
columns resolved and how many rows would be kept or dropped.

Cell contents are not checked. Returns exit 0 if generation would succeed,
exit 2 otherwise.

Example:
  takedownreport validate
  takedownreport validate --data-dir ./march --format json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateDataDir, "data-dir", "d", "",
		"directory with report CSV files (default from config)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text",
		"output format: text or json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	dataDir := firstNonEmpty(validateDataDir, cfg.DataDir)

	res, err := validator.New().ValidateDataDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to inspect data directory: %w", err)
	}

	switch validateFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	case "text":
		writeValidateText(os.Stdout, res)
	default:
		return &UsageError{Message: fmt.Sprintf("unsupported format: %s (use text or json)", validateFormat)}
	}

	return res.Err()
}

func writeValidateText(w io.Writer, res *validator.Result) {
	fmt.Fprintf(w, "Data directory: %s\n", res.DataDir)

	if res.Meta != nil {
		writeInspection(w, res.Meta, true)
	}
	for _, fi := range res.Tables {
		writeInspection(w, fi, false)
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range res.Warnings {
			fmt.Fprintf(w, "  △ %s\n", msg)
		}
	}
	if len(res.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, msg := range res.Errors {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}

	if res.Valid() {
		fmt.Fprintln(w, "\nVALID: ready to generate")
	} else {
		fmt.Fprintln(w, "\nINVALID: fix the errors above before generating")
	}
}

func writeInspection(w io.Writer, fi *loader.FileInspection, required bool) {
	if !fi.Exists {
		if required {
			fmt.Fprintf(w, "  ✗ %-18s missing\n", fi.Filename)
		} else {
			fmt.Fprintf(w, "  - %-18s not present (table will be empty)\n", fi.Filename)
		}
		return
	}

	total := len(fi.Resolved) + len(fi.Unresolved)
	detail := fmt.Sprintf("%d row(s), columns %d/%d", fi.DataRows, len(fi.Resolved), total)
	if !required {
		detail = fmt.Sprintf("%d kept, %d dropped, columns %d/%d", fi.Kept, fi.Dropped, len(fi.Resolved), total)
	}
	fmt.Fprintf(w, "  ✓ %-18s %s\n", fi.Filename, detail)

	if len(fi.Unresolved) > 0 {
		fmt.Fprintf(w, "      unresolved: %s\n", strings.Join(fi.Unresolved, ", "))
	}
}
