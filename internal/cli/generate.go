package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/takedownreport/internal/config"
	"github.com/ppiankov/takedownreport/internal/pdf"
	"github.com/ppiankov/takedownreport/internal/pipeline"
)

var (
	// Generate command flags
	generateDataDir     string
	generateTemplate    string
	generateOutput      string
	generateAssetsDir   string
	generateKeyOutcomes string
	generatePDF         bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the takedown report from a data directory",
	Long: `Generate reads report_meta.csv and the optional detail tables from the data
directory, renders the report template and writes the HTML report. The logo
from the assets directory is copied next to the output.

With --pdf the HTML is also converted to an A4 PDF next to it. If only the PDF
step fails, the HTML is kept and the command exits 3.

Example:
  takedownreport generate
  takedownreport generate --data-dir ./march --output out/march.html --pdf
  takedownreport generate --template custom.html --key-outcomes outcomes.yaml`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDataDir, "data-dir", "d", "",
		"directory with report CSV files (default from config)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "",
		"report template (default: built-in)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "",
		"output HTML path (default from config)")
	generateCmd.Flags().StringVar(&generateAssetsDir, "assets-dir", "",
		"directory holding main_logo.png (default from config)")
	generateCmd.Flags().StringVar(&generateKeyOutcomes, "key-outcomes", "",
		"YAML file with key outcome bullets")
	generateCmd.Flags().BoolVar(&generatePDF, "pdf", false,
		"also write a PDF next to the HTML")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := generateOptions()

	ctx, stop := signalContext()
	defer stop()

	_, err := runPipeline(ctx, opts)
	return err
}

// generateOptions merges generate flags over the loaded config
func generateOptions() pipeline.Options {
	opts := pipeline.Options{
		DataDir:         firstNonEmpty(generateDataDir, cfg.DataDir),
		Template:        firstNonEmpty(generateTemplate, cfg.Template),
		Output:          firstNonEmpty(generateOutput, cfg.Output),
		AssetsDir:       firstNonEmpty(generateAssetsDir, cfg.AssetsDir),
		KeyOutcomesFile: firstNonEmpty(generateKeyOutcomes, cfg.KeyOutcomesFile),
		PDF:             generatePDF || cfg.PDF,
		Logger:          logger,
	}
	if opts.PDF {
		opts.Converter = newConverter(cfg)
	}
	return opts
}

// runPipeline runs one generation and prints the saved paths
func runPipeline(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	logVerbose("Generating report from %s", opts.DataDir)
	logDebug("template=%q output=%s assets_dir=%s pdf=%t", opts.Template, opts.Output, opts.AssetsDir, opts.PDF)

	result, err := pipeline.Generate(ctx, opts)
	if result != nil {
		fmt.Printf("HTML report saved to: %s\n", result.HTMLPath)
		if result.PDFPath != "" {
			fmt.Printf("PDF report saved to: %s\n", result.PDFPath)
		}
	}
	if err != nil {
		if errors.Is(err, pipeline.ErrPDFFailed) {
			logger.Warn("HTML kept without PDF", zap.Error(err))
		}
		return result, err
	}

	logVerbose("Report has %d threat(s): %d taken down, %d under review, %d in progress (%s)",
		result.Counts.TotalThreats, result.Counts.TakenDown, result.Counts.UnderReview,
		result.Counts.InProgress, result.Duration)
	return result, nil
}

// newConverter builds the PDF converter; replaced in tests
var newConverter = func(c *config.Config) pipeline.Converter {
	return pdf.New(pdf.Options{
		ChromePath: c.ChromePath,
		Timeout:    c.PDFTimeout,
		Logger:     logger,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
