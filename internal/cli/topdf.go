package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// toPDFCmd represents the to-pdf command
var toPDFCmd = &cobra.Command{
	Use:   "to-pdf [file.html]",
	Short: "Convert an HTML report to PDF",
	Long: `Convert an existing HTML report to an A4 PDF written next to it.

Without an argument the configured output path is converted, if it exists.
Needs Chrome or Chromium (see 'takedownreport doctor').

Example:
  takedownreport to-pdf
  takedownreport to-pdf output/Takedown_Report_generated.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runToPDF,
}

func runToPDF(cmd *cobra.Command, args []string) error {
	htmlPath := cfg.Output
	if len(args) == 1 {
		htmlPath = args[0]
	} else if _, err := os.Stat(htmlPath); err != nil {
		return &UsageError{Message: fmt.Sprintf("no HTML file given and %s does not exist (usage: takedownreport to-pdf [file.html])", htmlPath)}
	}

	ctx, stop := signalContext()
	defer stop()

	logVerbose("Converting %s", htmlPath)
	pdfPath, err := newConverter(cfg).Convert(ctx, htmlPath)
	if err != nil {
		return err
	}

	fmt.Printf("PDF report saved to: %s\n", pdfPath)
	return nil
}
