// Package pdf converts a rendered HTML report into an A4 PDF using a
// headless Chrome driven over the DevTools protocol.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/ppiankov/takedownreport/internal/discovery"
)

var (
	// ErrNotFound is returned when the input HTML file does not exist.
	ErrNotFound = errors.New("html file not found")

	// ErrWrongType is returned when the input is not an .html or .htm file.
	ErrWrongType = errors.New("expected .html or .htm file")

	// ErrUnavailable is returned when no Chrome or Chromium binary can be found.
	ErrUnavailable = errors.New("pdf conversion unavailable: no Chrome or Chromium found (install one or set chrome_path)")
)

const (
	// A4 in inches
	paperWidthIn  = 8.27
	paperHeightIn = 11.69

	// 18px at 96 CSS pixels per inch
	marginIn = 18.0 / 96.0

	// DefaultTimeout bounds a whole conversion including browser start.
	DefaultTimeout = 60 * time.Second

	shutdownGrace = 5 * time.Second
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	pdfapi.DisableConfigDir()
}

// Options configures a Converter.
type Options struct {
	// ChromePath pins the browser binary; empty means discover.
	ChromePath string
	Timeout    time.Duration
	Logger     *zap.Logger
	Discoverer *discovery.Discoverer
}

// Converter renders HTML files to PDF. Each call launches and tears down
// its own browser process.
type Converter struct {
	chromePath string
	timeout    time.Duration
	logger     *zap.Logger
	discoverer *discovery.Discoverer
}

// New creates a Converter, filling unset options with defaults.
func New(opts Options) *Converter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Discoverer == nil {
		opts.Discoverer = discovery.New(exec.LookPath, os.Getenv, nil)
	}
	return &Converter{
		chromePath: opts.ChromePath,
		timeout:    opts.Timeout,
		logger:     opts.Logger.Named("pdf"),
		discoverer: opts.Discoverer,
	}
}

// PDFPath returns the sibling PDF path for an HTML file.
func PDFPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".pdf"
}

// checkInput resolves htmlPath and verifies it is an existing HTML file.
func checkInput(htmlPath string) (string, error) {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", htmlPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".html", ".htm":
		return abs, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrWrongType, filepath.Ext(abs))
	}
}

// Convert renders htmlPath to a PDF next to it and returns the PDF path.
func (c *Converter) Convert(ctx context.Context, htmlPath string) (string, error) {
	abs, err := checkInput(htmlPath)
	if err != nil {
		return "", err
	}

	plan := c.discoverer.Discover(c.chromePath)
	if !plan.Found() {
		return "", ErrUnavailable
	}

	pdfPath := PDFPath(abs)
	c.logger.Debug("Converting HTML to PDF",
		zap.String("html", abs),
		zap.String("pdf", pdfPath),
		zap.String("browser", plan.Selected))

	data, err := c.print(ctx, plan.Selected, fileURL(abs))
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", abs, err)
	}

	if err := pdfapi.Validate(bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("browser produced an invalid PDF: %w", err)
	}

	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	c.logger.Info("PDF written", zap.String("path", pdfPath), zap.Int("bytes", len(data)))
	return pdfPath, nil
}

// print drives one browser session: load, wait for network idle, inject
// the print stylesheet, print.
func (c *Converter) print(ctx context.Context, browserPath, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserPath),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Chrome child processes can block graceful cancel; force-kill after a grace period.
	defer func() {
		var proc *os.Process
		if bc := chromedp.FromContext(browserCtx); bc != nil && bc.Browser != nil {
			proc = bc.Browser.Process()
		}

		done := make(chan struct{})
		go func() {
			browserCancel()
			allocCancel()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownGrace):
			if proc != nil {
				_ = proc.Kill()
			}
			c.logger.Warn("Browser shutdown timed out, process killed")
		}
	}()

	var (
		initialLoader cdp.LoaderID
		idleOnce      sync.Once
		loaderMu      sync.Mutex
	)
	idle := make(chan struct{})

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || e.Name != "networkIdle" {
			return
		}
		loaderMu.Lock()
		stale := e.LoaderID == initialLoader
		loaderMu.Unlock()
		if !stale {
			idleOnce.Do(func() { close(idle) })
		}
	})

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			loaderMu.Lock()
			initialLoader = tree.Frame.LoaderID
			loaderMu.Unlock()
			return page.SetLifecycleEventsEnabled(true).Do(ctx)
		}),
		chromedp.Navigate(target),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("waiting for network idle: %w", ctx.Err())
			}
		}),
		injectStyle(PrintCSS),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return buf, nil
}

// injectStyle appends a <style> element holding css to the document head.
func injectStyle(css string) chromedp.Action {
	quoted, _ := json.Marshal(css)
	script := fmt.Sprintf(`(() => {
	const style = document.createElement('style');
	style.textContent = %s;
	(document.head || document.documentElement).appendChild(style);
	return true;
})()`, quoted)

	var ok bool
	return chromedp.Evaluate(script, &ok)
}

// fileURL builds a file:// URL for an absolute path.
func fileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
