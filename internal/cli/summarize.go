package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/takedownreport/internal/reporter"
)

var (
	// Summarize command flags
	summarizeDataDir string
	summarizeFormat  string
	summarizeRows    int
	summarizeFull    bool
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Show report counts and metadata without rendering",
	Long: `Summarize loads the data directory and prints what the report would say:
metadata, per-table counts, threat overview and key outcomes.

This command displays:
- Report date, author and reporting window
- Taken down, under review and in progress counts
- Optionally the first rows of each table (--rows)

Example:
  takedownreport summarize
  takedownreport summarize --rows 5
  takedownreport summarize --format json --full`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeDataDir, "data-dir", "d", "",
		"directory with report CSV files (default from config)")
	summarizeCmd.Flags().StringVarP(&summarizeFormat, "format", "f", "text",
		"output format: text or json")
	summarizeCmd.Flags().IntVarP(&summarizeRows, "rows", "n", 0,
		"rows to list per table in text output")
	summarizeCmd.Flags().BoolVar(&summarizeFull, "full", false,
		"include every table row in json output")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if summarizeFormat != "text" && summarizeFormat != "json" {
		return &UsageError{Message: fmt.Sprintf("unsupported format: %s (use text or json)", summarizeFormat)}
	}

	report, err := loadReport(firstNonEmpty(summarizeDataDir, cfg.DataDir))
	if err != nil {
		return err
	}

	if summarizeFormat == "json" {
		jsonReporter := reporter.NewJSONReporter(os.Stdout, true)
		if summarizeFull {
			return jsonReporter.Generate(report)
		}
		return jsonReporter.GenerateSummaryOnly(report)
	}

	textReporter := reporter.NewTextReporter(os.Stdout)
	textReporter.RowLimit = summarizeRows
	return textReporter.Generate(report)
}
