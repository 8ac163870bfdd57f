package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configName = "takedownreport"

// Config holds all configuration for takedownreport
type Config struct {
	// Directory holding report_meta.csv and the optional detail tables
	DataDir string `mapstructure:"data_dir"`

	// Report template; empty means the built-in template
	Template string `mapstructure:"template"`

	// Output HTML path
	Output string `mapstructure:"output"`

	// Directory with companion assets (main_logo.png)
	AssetsDir string `mapstructure:"assets_dir"`

	// Also produce a PDF next to the HTML
	PDF bool `mapstructure:"pdf"`

	// Chrome/Chromium binary; empty means discover
	ChromePath string `mapstructure:"chrome_path"`

	// Upper bound for one PDF conversion
	PDFTimeout time.Duration `mapstructure:"pdf_timeout"`

	// YAML file with key outcome bullets; empty means built-in defaults
	KeyOutcomesFile string `mapstructure:"key_outcomes_file"`

	// Upload front-end
	ListenAddr    string `mapstructure:"listen_addr"`
	UploadLimitMB int    `mapstructure:"upload_limit_mb"`
	WorkDir       string `mapstructure:"work_dir"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // console or json
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DataDir:       "data",
		Template:      "",
		Output:        filepath.Join("output", "Takedown_Report_generated.html"),
		AssetsDir:     "assets",
		PDF:           false,
		PDFTimeout:    60 * time.Second,
		ListenAddr:    "127.0.0.1:5000",
		UploadLimitMB: 8,
		WorkDir:       filepath.Join("output", "uploads"),
		Verbose:       false,
		Debug:         false,
		Log: LogConfig{
			Level:      "warn",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./takedownreport.yaml or ~/takedownreport.yaml)
// 3. Environment variables (TAKEDOWNREPORT_*, nested keys use _ e.g. TAKEDOWNREPORT_LOG_LEVEL)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("template", defaults.Template)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("assets_dir", defaults.AssetsDir)
	v.SetDefault("pdf", defaults.PDF)
	v.SetDefault("chrome_path", "")
	v.SetDefault("pdf_timeout", defaults.PDFTimeout)
	v.SetDefault("key_outcomes_file", "")
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("upload_limit_mb", defaults.UploadLimitMB)
	v.SetDefault("work_dir", defaults.WorkDir)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("log.max_age_days", defaults.Log.MaxAgeDays)
	v.SetDefault("log.compress", defaults.Log.Compress)

	// Set config file settings
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	if configPath != "" {
		// Use explicit config file path
		v.SetConfigFile(configPath)
	} else {
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	// Enable environment variable support
	v.SetEnvPrefix("TAKEDOWNREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (ignore error if not found)
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "file not found" error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// searchDirs lists the directories searched for takedownreport.yaml, in order:
// current directory, home directory, $XDG_CONFIG_HOME/takedownreport.
func searchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		dirs = append(dirs, filepath.Join(xdgConfig, "takedownreport"))
	}
	return dirs
}

// FindConfigFile returns the config file LoadFromFile("") would read, or ""
func FindConfigFile() string {
	for _, dir := range searchDirs() {
		path := filepath.Join(dir, configName+".yaml")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	if c.PDFTimeout <= 0 {
		return fmt.Errorf("pdf_timeout must be positive")
	}
	if c.UploadLimitMB <= 0 {
		return fmt.Errorf("upload_limit_mb must be positive")
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format: %s (must be console or json)", c.Log.Format)
	}

	return nil
}

// ExpandPath resolves a leading ~/ and makes path absolute
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}

// UploadLimitBytes returns the upload cap in bytes
func (c *Config) UploadLimitBytes() int64 {
	return int64(c.UploadLimitMB) << 20
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# takedownreport configuration
# Save this file as ./takedownreport.yaml or ~/takedownreport.yaml

# Directory with report_meta.csv, taken_down.csv, under_review.csv, in_progress.csv
data_dir: data

# Report template (Go html/template); leave empty for the built-in template
# template: templates/Takedown_Report_template.html

# Output HTML path; the PDF is written next to it with a .pdf extension
output: output/Takedown_Report_generated.html

# Directory holding main_logo.png, copied next to the output HTML
assets_dir: assets

# Also convert the HTML report to PDF (needs Chrome or Chromium)
pdf: false

# Chrome/Chromium binary; discovered from PATH when empty (or CHROME_PATH)
# chrome_path: /usr/bin/chromium

# Upper bound for one PDF conversion
pdf_timeout: 60s

# YAML list of key outcome bullets; built-in defaults when empty
# key_outcomes_file: data/key_outcomes.yaml

# Upload front-end (takedownreport serve)
listen_addr: 127.0.0.1:5000
upload_limit_mb: 8
work_dir: output/uploads

# Enable verbose output
verbose: false

# Enable debug mode
debug: false

log:
  level: warn
  format: console   # console or json
  # file: logs/takedownreport.log
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
  compress: false
`
}
