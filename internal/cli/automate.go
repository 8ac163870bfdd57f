package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/takedownreport/internal/loader"
)

var (
	automateNoUpdateDate bool
	automateHTMLOnly     bool

	// now is the clock used for date stamping; replaced in tests
	now = time.Now
)

// automateCmd represents the automate command
var automateCmd = &cobra.Command{
	Use:   "automate",
	Short: "Stamp today's date, then generate HTML and PDF",
	Long: `Automate is the one-shot monthly run: it sets report_date in
report_meta.csv to today's date (e.g. "01 March 2026"), generates the HTML
report from the configured data directory and converts it to PDF.

Example:
  takedownreport automate
  takedownreport automate --no-update-date
  takedownreport automate --html-only`,
	Args: cobra.NoArgs,
	RunE: runAutomate,
}

func init() {
	automateCmd.Flags().BoolVar(&automateNoUpdateDate, "no-update-date", false,
		"keep report_date as it is in report_meta.csv")
	automateCmd.Flags().BoolVar(&automateHTMLOnly, "html-only", false,
		"skip the PDF conversion")
}

func runAutomate(cmd *cobra.Command, args []string) error {
	opts := generateOptions()
	opts.PDF = !automateHTMLOnly
	opts.Converter = nil
	if opts.PDF {
		opts.Converter = newConverter(cfg)
	}

	if !automateNoUpdateDate {
		today := now()
		stamped, err := loader.StampReportDate(opts.DataDir, today)
		if err != nil {
			return fmt.Errorf("failed to update report date: %w", err)
		}
		if stamped {
			fmt.Printf("Report date set to: %s\n", today.Format(loader.ReportDateLayout))
		} else {
			logVerbose("Report date not updated (no report_meta.csv rows or report_date column)")
		}
	}

	ctx, stop := signalContext()
	defer stop()

	_, err := runPipeline(ctx, opts)
	return err
}
