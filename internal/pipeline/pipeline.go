// Package pipeline runs one report generation: load the data directory,
// render, write the HTML with its logo, and optionally convert to PDF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/models"
	"github.com/ppiankov/takedownreport/internal/render"
	"github.com/ppiankov/takedownreport/internal/storage"
)

var (
	// ErrDataDir is returned when the data directory is missing or not a directory.
	ErrDataDir = errors.New("data directory not found")

	// ErrKeyOutcomes is returned when the key outcomes file cannot be used.
	ErrKeyOutcomes = errors.New("invalid key outcomes file")

	// ErrPDFFailed marks a run whose HTML was written but whose PDF was not.
	ErrPDFFailed = errors.New("pdf conversion failed")
)

// Converter turns an HTML file into a sibling PDF.
type Converter interface {
	Convert(ctx context.Context, htmlPath string) (string, error)
}

// Options holds the inputs of one generation.
type Options struct {
	DataDir  string
	Template string // empty selects the embedded template
	Output   string
	// AssetsDir holds main_logo.png; empty skips the copy.
	AssetsDir string
	PDF       bool

	// KeyOutcomes overrides the bullet list when non-nil.
	KeyOutcomes []string
	// KeyOutcomesFile is read when KeyOutcomes is nil.
	KeyOutcomesFile string

	// Converter is required when PDF is set.
	Converter Converter
	Logger    *zap.Logger
}

// Result describes what a generation produced.
type Result struct {
	HTMLPath    string              `json:"html_path"`
	PDFPath     string              `json:"pdf_path,omitempty"`
	Counts      models.ReportCounts `json:"counts"`
	LogoCopied  bool                `json:"logo_copied"`
	Duration    time.Duration       `json:"duration"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Generate executes the pipeline:
// validate inputs → build context → render → write HTML → copy logo → PDF.
// Input problems are reported before anything is written. When only the PDF
// step fails, the Result is returned together with an error wrapping ErrPDFFailed.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("pipeline")
	start := time.Now()

	// Step 1: Validate inputs
	if err := checkDataDir(opts.DataDir); err != nil {
		return nil, err
	}
	if opts.Output == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if opts.PDF && opts.Converter == nil {
		return nil, fmt.Errorf("pdf requested but no converter configured")
	}

	tmpl, err := loadTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	keyOutcomes, err := resolveKeyOutcomes(opts)
	if err != nil {
		return nil, err
	}

	// Step 2: Build context
	reportCtx, err := loader.BuildContext(opts.DataDir, keyOutcomes)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded report data",
		zap.String("data_dir", opts.DataDir),
		zap.Int("taken_down", reportCtx.Counts.TakenDown),
		zap.Int("under_review", reportCtx.Counts.UnderReview),
		zap.Int("in_progress", reportCtx.Counts.InProgress))

	// Step 3: Render
	html, err := render.Render(tmpl, reportCtx)
	if err != nil {
		return nil, err
	}

	// Step 4: Write HTML
	if err := storage.WriteHTML(opts.Output, html); err != nil {
		return nil, err
	}
	result := &Result{
		HTMLPath:    opts.Output,
		Counts:      reportCtx.Counts,
		GeneratedAt: start,
	}
	logger.Info("HTML written", zap.String("path", opts.Output))

	// Step 5: Companion logo
	if opts.AssetsDir != "" {
		copied, err := storage.EnsureAsset(opts.AssetsDir, filepath.Dir(opts.Output), storage.LogoName)
		if err != nil {
			return nil, err
		}
		result.LogoCopied = copied
		if copied {
			logger.Debug("Copied logo", zap.String("assets_dir", opts.AssetsDir))
		}
	}

	// Step 6: Optional PDF
	if opts.PDF {
		pdfPath, err := opts.Converter.Convert(ctx, opts.Output)
		if err != nil {
			result.Duration = time.Since(start)
			logger.Warn("PDF conversion failed", zap.Error(err))
			return result, fmt.Errorf("%w: %w", ErrPDFFailed, err)
		}
		result.PDFPath = pdfPath
	}

	result.Duration = time.Since(start)
	return result, nil
}

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDataDir, dir)
		}
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDataDir, dir)
	}
	return nil
}

func loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		return render.Default()
	}
	return render.Parse(path)
}

func resolveKeyOutcomes(opts Options) ([]string, error) {
	if opts.KeyOutcomes != nil || opts.KeyOutcomesFile == "" {
		return opts.KeyOutcomes, nil
	}
	outcomes, err := loader.LoadKeyOutcomes(opts.KeyOutcomesFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyOutcomes, err)
	}
	return outcomes, nil
}
