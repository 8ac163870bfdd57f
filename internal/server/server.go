// Package server is the browser upload front-end: a form for the CSV files,
// one generation per upload, and per-run downloads.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/takedownreport/internal/api"
	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/models"
	"github.com/ppiankov/takedownreport/internal/pipeline"
	"github.com/ppiankov/takedownreport/internal/render"
	"github.com/ppiankov/takedownreport/internal/storage"
)

// OutputName is the HTML file name inside each run directory.
const OutputName = "Takedown_Report_generated.html"

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

var errRequired = errors.New("is required")

// Options configures a Server.
type Options struct {
	Addr        string
	UploadLimit int64
	Template    string
	AssetsDir   string
	// KeyOutcomesFile is passed through to every generation.
	KeyOutcomesFile string
	// Converter enables the "also PDF" checkbox; nil disables PDF output.
	Converter pipeline.Converter
	Store     storage.Storage
	Logger    *zap.Logger
	// RateLimit caps uploads per client IP per minute; 0 uses the default.
	RateLimit int
}

// Server serves the upload form, runs generations and serves their outputs.
type Server struct {
	opts    Options
	store   storage.Storage
	metrics *Metrics
	logger  *zap.Logger

	// one generation at a time
	genMu sync.Mutex
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("server requires a run store")
	}
	if opts.UploadLimit <= 0 {
		opts.UploadLimit = api.DefaultRequestBodyLimitBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return &Server{
		opts:    opts,
		store:   opts.Store,
		metrics: metrics,
		logger:  opts.Logger.Named("server"),
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /download/{id}/{kind}", s.handleDownload)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return api.Chain(mux,
		api.SecurityHeaders,
		api.RateLimitPerIP(s.opts.RateLimit, time.Minute),
		// multipart framing on top of the file bytes
		api.BodySizeLimit(s.opts.UploadLimit+64<<10),
	)
}

// Run listens on opts.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	s.logger.Info("Upload server listening", zap.String("addr", ln.Addr().String()))

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down upload server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type indexData struct {
	Error   string
	Run     *storage.Run
	Fields  []api.UploadField
	LimitMB int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Error:   r.URL.Query().Get("error"),
		Fields:  api.UploadFields(),
		LimitMB: s.opts.UploadLimit >> 20,
	}

	if id := r.URL.Query().Get("id"); id != "" {
		if err := api.ValidateRunID(id); err != nil {
			data.Error = "Unknown report id."
		} else if run, err := s.store.LoadRun(id); err != nil {
			data.Error = "Unknown report id."
		} else {
			data.Run = run
		}
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render index", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(s.opts.UploadLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.fail(w, r, OutcomeInvalid, fmt.Sprintf("Upload exceeds the %d MB limit.", s.opts.UploadLimit>>20))
			return
		}
		s.fail(w, r, OutcomeInvalid, "Could not read upload: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	dataDir, err := os.MkdirTemp("", "takedownreport-upload-*")
	if err != nil {
		s.logger.Error("Failed to create upload directory", zap.Error(err))
		s.fail(w, r, OutcomeError, "Server could not store the upload.")
		return
	}
	defer func() { _ = os.RemoveAll(dataDir) }()

	for _, field := range api.UploadFields() {
		if err := saveField(r, field, dataDir); err != nil {
			if errors.Is(err, errRequired) {
				s.fail(w, r, OutcomeInvalid, fmt.Sprintf("%s %s.", field.Filename, errRequired))
				return
			}
			s.fail(w, r, OutcomeInvalid, err.Error())
			return
		}
	}

	wantPDF := r.FormValue("also_pdf") != ""
	id := uuid.NewString()
	runDir := s.store.RunDir(id)

	s.genMu.Lock()
	result, genErr := pipeline.Generate(r.Context(), pipeline.Options{
		DataDir:         dataDir,
		Template:        s.opts.Template,
		Output:          filepath.Join(runDir, OutputName),
		AssetsDir:       s.opts.AssetsDir,
		PDF:             wantPDF && s.opts.Converter != nil,
		KeyOutcomesFile: s.opts.KeyOutcomesFile,
		Converter:       s.opts.Converter,
		Logger:          s.logger,
	})
	s.genMu.Unlock()

	if genErr != nil && !errors.Is(genErr, pipeline.ErrPDFFailed) {
		_ = os.RemoveAll(runDir)
		s.logger.Warn("Generation failed", zap.Error(genErr))
		s.fail(w, r, outcomeFor(genErr), userMessage(genErr))
		return
	}

	run := &storage.Run{
		ID:        id,
		CreatedAt: start.UTC(),
		HTMLPath:  result.HTMLPath,
		PDFPath:   result.PDFPath,
		Counts:    result.Counts,
	}
	outcome := OutcomeSuccess
	switch {
	case genErr != nil:
		run.PDFError = strings.TrimPrefix(genErr.Error(), pipeline.ErrPDFFailed.Error()+": ")
		outcome = OutcomePartial
	case wantPDF && s.opts.Converter == nil:
		run.PDFError = "PDF conversion is disabled on this server"
		outcome = OutcomePartial
	}

	if err := s.store.SaveRun(run); err != nil {
		s.logger.Error("Failed to save run", zap.String("id", id), zap.Error(err))
		s.fail(w, r, OutcomeError, "Server could not record the report.")
		return
	}

	s.metrics.observe(outcome, errors.Is(genErr, pipeline.ErrPDFFailed), time.Since(start))
	s.logger.Info("Report generated",
		zap.String("id", id),
		zap.String("outcome", outcome),
		zap.Int("total_threats", run.Counts.TotalThreats))

	http.Redirect(w, r, "/?id="+url.QueryEscape(id), http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := api.ValidateRunID(id); err != nil {
		redirectError(w, r, "Unknown report id.")
		return
	}

	run, err := s.store.LoadRun(id)
	if err != nil {
		redirectError(w, r, "No report generated for this id.")
		return
	}

	var path, contentType string
	switch r.PathValue("kind") {
	case "html":
		path, contentType = run.HTMLPath, "text/html; charset=utf-8"
	case "pdf":
		path, contentType = run.PDFPath, "application/pdf"
	default:
		http.NotFound(w, r)
		return
	}

	if path == "" {
		redirectError(w, r, "No "+r.PathValue("kind")+" generated for this report.")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		redirectError(w, r, "Generated file is no longer available.")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		redirectError(w, r, "Generated file is no longer available.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, outcome, msg string) {
	s.metrics.observe(outcome, false, 0)
	redirectError(w, r, msg)
}

// userMessage maps a generation error to text safe to show in the browser.
// Temporary paths stay in the log.
func userMessage(err error) string {
	switch {
	case errors.Is(err, loader.ErrMissingFile):
		return models.MetaFile + " is required."
	case errors.Is(err, loader.ErrEmptyData):
		return models.MetaFile + " has no data rows."
	case errors.Is(err, render.ErrTemplateNotFound), errors.Is(err, render.ErrTemplateSyntax):
		return "The report template could not be loaded."
	case errors.Is(err, pipeline.ErrKeyOutcomes):
		return "The key outcomes file could not be loaded."
	default:
		return "Report generation failed."
	}
}

func outcomeFor(err error) string {
	if errors.Is(err, loader.ErrMissingFile) || errors.Is(err, loader.ErrEmptyData) {
		return OutcomeInvalid
	}
	return OutcomeError
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// saveField copies one uploaded form file into dir under its canonical name.
func saveField(r *http.Request, field api.UploadField, dir string) error {
	file, header, err := r.FormFile(field.Name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if field.Required {
				return errRequired
			}
			return nil
		}
		return fmt.Errorf("could not read %s: %w", field.Filename, err)
	}
	defer file.Close()

	if header.Filename == "" && !field.Required {
		return nil
	}
	if err := api.ValidateUploadFilename(header.Filename); err != nil {
		return err
	}
	return copyUpload(file, header, filepath.Join(dir, field.Filename))
}

func copyUpload(file multipart.File, header *multipart.FileHeader, dst string) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not read %s: %w", header.Filename, err)
	}
	if err := api.ValidateCSVHead(head[:n]); err != nil {
		return fmt.Errorf("%s: %w", header.Filename, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("could not store %s: %w", header.Filename, err)
	}
	if _, err := io.Copy(out, io.MultiReader(bytes.NewReader(head[:n]), file)); err != nil {
		_ = out.Close()
		return fmt.Errorf("could not store %s: %w", header.Filename, err)
	}
	return out.Close()
}
