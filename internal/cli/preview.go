package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/models"
	"github.com/ppiankov/takedownreport/internal/pipeline"
	"github.com/ppiankov/takedownreport/internal/reporter"
	"github.com/ppiankov/takedownreport/internal/tui"
)

var (
	previewDataDir string
	previewNoTUI   bool
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse the loaded report rows interactively",
	Long: `Preview loads the data directory the same way generate does and shows the
retained rows of all three tables in an interactive table: search, filter by
table, sort and copy rows.

When stdout is not a terminal (or with --no-tui) a text summary is printed.

Example:
  takedownreport preview
  takedownreport preview --data-dir ./march`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewDataDir, "data-dir", "d", "",
		"directory with report CSV files (default from config)")
	previewCmd.Flags().BoolVar(&previewNoTUI, "no-tui", false,
		"print a text summary instead of the interactive view")
}

func runPreview(cmd *cobra.Command, args []string) error {
	report, err := loadReport(firstNonEmpty(previewDataDir, cfg.DataDir))
	if err != nil {
		return err
	}

	if previewNoTUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		textReporter := reporter.NewTextReporter(os.Stdout)
		textReporter.RowLimit = previewRowLimit
		return textReporter.Generate(report)
	}

	return tui.Run(report)
}

// previewRowLimit caps rows per table in the non-interactive fallback
const previewRowLimit = 10

// loadReport builds the report context with the configured key outcomes
func loadReport(dataDir string) (*models.ReportContext, error) {
	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return nil, &UsageError{Message: fmt.Sprintf("data directory '%s' does not exist or is not a directory", dataDir)}
	}

	var keyOutcomes []string
	if cfg.KeyOutcomesFile != "" {
		keyOutcomes, err = loader.LoadKeyOutcomes(cfg.KeyOutcomesFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pipeline.ErrKeyOutcomes, err)
		}
	}

	logVerbose("Loading report data from %s", dataDir)
	return loader.BuildContext(dataDir, keyOutcomes)
}
