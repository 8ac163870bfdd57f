package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/takedownreport/internal/config"
	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/observability"
	"github.com/ppiankov/takedownreport/internal/pdf"
	"github.com/ppiankov/takedownreport/internal/pipeline"
	"github.com/ppiankov/takedownreport/internal/render"
	"github.com/ppiankov/takedownreport/internal/validator"
)

const (
	ExitOK           = 0 // Success
	ExitInvalidInput = 2 // Missing or empty input, bad template, bad arguments
	ExitRuntimeError = 3 // I/O, permissions, PDF or other runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global logger, built from cfg.Log after flags are applied
	logger = zap.NewNop()

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// buildVersion is set from main via SetVersion
	buildVersion = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "takedownreport",
	Short: "Takedown report generator for brand-protection teams",
	Long: `takedownreport turns a directory of CSV exports into a styled HTML
takedown report, optionally converted to an A4 PDF with headless Chrome.

The data directory holds:
  report_meta.csv   (required) one row of report metadata
  taken_down.csv    (optional) domains taken down
  under_review.csv  (optional) domains under review
  in_progress.csv   (optional) domains in progress

Quick start:
  takedownreport doctor
  takedownreport validate
  takedownreport generate --pdf

Other commands:
  takedownreport automate
  takedownreport to-pdf output/Takedown_Report_generated.html
  takedownreport preview
  takedownreport serve --addr 127.0.0.1:5000`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return &UsageError{Message: fmt.Sprintf("failed to load config: %v", err)}
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		logger = observability.New(effectiveLogConfig(cfg), nil)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync(logger)
	},
}

// Execute runs the root command and exits with the mapped exit code
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		observability.Sync(logger)
		os.Exit(HandleError(err))
	}
}

// SetVersion records the build version shown by the version command
func SetVersion(v string) {
	buildVersion = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./takedownreport.yaml or ~/takedownreport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(toPDFCmd)
	rootCmd.AddCommand(automateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("takedownreport %s\n", buildVersion)
		fmt.Println("CSV to HTML/PDF takedown report generator")
	},
}

// effectiveLogConfig raises the log level for --verbose and --debug
func effectiveLogConfig(c *config.Config) config.LogConfig {
	lc := c.Log
	switch {
	case c.Debug:
		lc.Level = "debug"
	case c.Verbose && observability.ParseLevel(lc.Level) > observability.ParseLevel("info"):
		lc.Level = "info"
	}
	return lc
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	var validationErr *validator.ValidationError

	switch {
	case errors.Is(err, pipeline.ErrPDFFailed):
		return ExitRuntimeError
	case errors.As(err, &usageErr),
		errors.As(err, &validationErr),
		errors.Is(err, loader.ErrMissingFile),
		errors.Is(err, loader.ErrEmptyData),
		errors.Is(err, render.ErrTemplateNotFound),
		errors.Is(err, render.ErrTemplateSyntax),
		errors.Is(err, pipeline.ErrDataDir),
		errors.Is(err, pipeline.ErrKeyOutcomes),
		errors.Is(err, pdf.ErrNotFound),
		errors.Is(err, pdf.ErrWrongType):
		return ExitInvalidInput
	default:
		return ExitRuntimeError
	}
}

// UsageError represents bad arguments or an unusable configuration
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// logVerbose logs at info level; shown with --verbose
func logVerbose(format string, args ...interface{}) {
	logger.Sugar().Infof(format, args...)
}

// logDebug logs at debug level; shown with --debug
func logDebug(format string, args ...interface{}) {
	logger.Sugar().Debugf(format, args...)
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
