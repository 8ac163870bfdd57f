package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DataDir != "data" {
		t.Errorf("expected data_dir=data, got %s", cfg.DataDir)
	}
	if cfg.Template != "" {
		t.Errorf("expected empty template, got %s", cfg.Template)
	}
	if cfg.PDF {
		t.Error("expected pdf=false")
	}
	if cfg.PDFTimeout != 60*time.Second {
		t.Errorf("expected pdf_timeout=60s, got %s", cfg.PDFTimeout)
	}
	if cfg.UploadLimitMB != 8 {
		t.Errorf("expected upload_limit_mb=8, got %d", cfg.UploadLimitMB)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("expected log.format=console, got %s", cfg.Log.Format)
	}
	if cfg.Verbose {
		t.Error("expected verbose=false")
	}
	if cfg.Debug {
		t.Error("expected debug=false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func(mut func(c *Config)) Config {
		c := DefaultConfig()
		mut(c)
		return *c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid defaults",
			cfg:     *DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "valid json log format",
			cfg:     valid(func(c *Config) { c.Log.Format = "json" }),
			wantErr: false,
		},
		{
			name:    "empty data_dir",
			cfg:     valid(func(c *Config) { c.DataDir = "" }),
			wantErr: true,
			errMsg:  "data_dir cannot be empty",
		},
		{
			name:    "empty output",
			cfg:     valid(func(c *Config) { c.Output = "" }),
			wantErr: true,
			errMsg:  "output cannot be empty",
		},
		{
			name:    "zero pdf_timeout",
			cfg:     valid(func(c *Config) { c.PDFTimeout = 0 }),
			wantErr: true,
			errMsg:  "pdf_timeout must be positive",
		},
		{
			name:    "negative upload limit",
			cfg:     valid(func(c *Config) { c.UploadLimitMB = -1 }),
			wantErr: true,
			errMsg:  "upload_limit_mb must be positive",
		},
		{
			name:    "invalid log format",
			cfg:     valid(func(c *Config) { c.Log.Format = "xml" }),
			wantErr: true,
			errMsg:  "invalid log.format",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Fatalf("expected error to contain %q, got %q", tt.errMsg, err.Error())
				}
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"relative path", "data"},
		{"home expansion", "~/reports"},
		{"absolute path", "/tmp/reports"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path, err := ExpandPath(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !filepath.IsAbs(path) {
				t.Fatalf("expected absolute path, got %q", path)
			}
		})
	}
}

func TestUploadLimitBytes(t *testing.T) {
	cfg := &Config{UploadLimitMB: 8}
	if got := cfg.UploadLimitBytes(); got != 8*1024*1024 {
		t.Errorf("expected 8 MiB, got %d", got)
	}
}

func TestLoadFromFileWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "takedownreport.yaml")

	content := `data_dir: /srv/reports/data
output: /srv/reports/out/report.html
pdf: true
pdf_timeout: 2m
chrome_path: /usr/bin/chromium
verbose: true
debug: true
log:
  level: debug
  format: json
  file: /var/log/takedownreport.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.DataDir != "/srv/reports/data" {
		t.Errorf("expected data_dir from file, got %s", cfg.DataDir)
	}
	if cfg.Output != "/srv/reports/out/report.html" {
		t.Errorf("expected output from file, got %s", cfg.Output)
	}
	if !cfg.PDF {
		t.Error("expected pdf=true")
	}
	if cfg.PDFTimeout != 2*time.Minute {
		t.Errorf("expected pdf_timeout=2m, got %s", cfg.PDFTimeout)
	}
	if cfg.ChromePath != "/usr/bin/chromium" {
		t.Errorf("expected chrome_path, got %s", cfg.ChromePath)
	}
	if !cfg.Verbose || !cfg.Debug {
		t.Error("expected verbose and debug true")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Log.MaxBackups != 3 {
		t.Errorf("expected default log.max_backups=3, got %d", cfg.Log.MaxBackups)
	}
	// untouched keys keep defaults
	if cfg.AssetsDir != "assets" {
		t.Errorf("expected default assets_dir, got %s", cfg.AssetsDir)
	}
}

func TestLoadFromFileInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "takedownreport.yaml")

	content := `log:
  format: xml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFile(path)
	if err == nil {
		t.Fatal("expected error for invalid log format")
	}
}

func TestLoadFromFileMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "takedownreport.yaml")
	if err := os.WriteFile(path, []byte("data_dir: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadFromFileNoFile(t *testing.T) {
	// Load with no config file should use defaults
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data_dir, got %s", cfg.DataDir)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	if got := FindConfigFile(); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}

	homeConfig := filepath.Join(home, "takedownreport.yaml")
	if err := os.WriteFile(homeConfig, []byte("data_dir: d\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != homeConfig {
		t.Errorf("expected %q, got %q", homeConfig, got)
	}

	// The current directory wins over home
	if err := os.WriteFile("takedownreport.yaml", []byte("data_dir: d\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != filepath.Join(".", "takedownreport.yaml") {
		t.Errorf("expected ./takedownreport.yaml, got %q", got)
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	sample := GenerateSampleConfig()
	if sample == "" {
		t.Fatal("expected non-empty sample config")
	}
	expectedFragments := []string{
		"data_dir",
		"output",
		"assets_dir",
		"pdf_timeout",
		"listen_addr",
		"log:",
	}
	for _, frag := range expectedFragments {
		if !strings.Contains(sample, frag) {
			t.Errorf("expected sample config to contain %q", frag)
		}
	}
}

func TestGenerateSampleConfigLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "takedownreport.yaml")
	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

func TestLoadFromFileWithEnvVars(t *testing.T) {
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)

	t.Setenv("TAKEDOWNREPORT_DATA_DIR", "/env/data")
	t.Setenv("TAKEDOWNREPORT_VERBOSE", "true")
	t.Setenv("TAKEDOWNREPORT_LOG_LEVEL", "debug")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/env/data" {
		t.Errorf("expected data_dir from env, got %s", cfg.DataDir)
	}
	if !cfg.Verbose {
		t.Error("expected verbose=true from env")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log.level=debug from env, got %s", cfg.Log.Level)
	}
}
