package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/ppiankov/takedownreport/internal/config"
	"github.com/ppiankov/takedownreport/internal/discovery"
	"github.com/ppiankov/takedownreport/internal/server"
	"github.com/ppiankov/takedownreport/internal/storage"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the CSV upload front-end",
	Long: `Serve starts a small web front-end: upload report_meta.csv and the optional
detail tables, get the generated HTML (and PDF) back as downloads.

Every upload is generated into its own directory under work_dir and is
addressed by a run id, so concurrent users never see each other's reports.
Prometheus metrics are served on /metrics.

Example:
  takedownreport serve
  takedownreport serve --addr 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default from config listen_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, addr, err := buildServer()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("Serving takedown report uploads on http://%s (Ctrl+C to stop)\n", addr)
	return srv.Run(ctx)
}

// buildServer wires the run store, converter and limits from config
func buildServer() (*server.Server, string, error) {
	addr := firstNonEmpty(serveAddr, cfg.ListenAddr)

	workDir, err := config.ExpandPath(cfg.WorkDir)
	if err != nil {
		return nil, "", err
	}
	store := storage.NewLocal(workDir)
	if err := store.EnsureDirectoryExists(); err != nil {
		return nil, "", err
	}
	logVerbose("Storing uploads in %s", store.GetStoragePath())

	opts := server.Options{
		Addr:            addr,
		UploadLimit:     cfg.UploadLimitBytes(),
		Template:        cfg.Template,
		AssetsDir:       cfg.AssetsDir,
		KeyOutcomesFile: cfg.KeyOutcomesFile,
		Store:           store,
		Logger:          logger,
	}

	if plan := browserPlan(cfg); plan.Found() {
		opts.Converter = newConverter(cfg)
		logVerbose("PDF conversion enabled (%s)", plan.Selected)
	} else {
		logger.Warn("No Chrome or Chromium found; PDF conversion disabled for uploads")
	}

	srv, err := server.New(opts)
	if err != nil {
		return nil, "", err
	}
	return srv, addr, nil
}

// browserPlan probes for a browser usable for PDF conversion; replaced in tests
var browserPlan = func(c *config.Config) *discovery.BrowserPlan {
	return discovery.New(exec.LookPath, os.Getenv, nil).Discover(c.ChromePath)
}
