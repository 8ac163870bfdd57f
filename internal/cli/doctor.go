package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/takedownreport/internal/config"
	"github.com/ppiankov/takedownreport/internal/render"
	"github.com/ppiankov/takedownreport/internal/storage"
	"github.com/ppiankov/takedownreport/internal/validator"
)

var (
	doctorFormat       string
	doctorSampleConfig bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your takedownreport setup end-to-end:

  1. Config file: found and readable?
  2. Data directory: report_meta.csv present with a data row?
  3. Template: built-in or custom, does it parse?
  4. Logo: main_logo.png in the assets directory?
  5. Browser: Chrome or Chromium available for PDF output?
  6. Output: directory writable?

Fix the issues it reports, then run 'takedownreport generate' with confidence.
Use --sample-config to print a commented configuration file.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
	doctorCmd.Flags().BoolVar(&doctorSampleConfig, "sample-config", false,
		"print a sample takedownreport.yaml and exit")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	if doctorSampleConfig {
		fmt.Print(config.GenerateSampleConfig())
		return nil
	}

	checks := []doctorCheck{
		checkConfig(),
		checkDataDir(),
		checkTemplate(),
		checkLogo(),
		checkBrowser(),
		checkOutput(),
	}

	result := doctorResult{Checks: checks, Summary: summarizeChecks(checks)}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(result)
}

func summarizeChecks(checks []doctorCheck) string {
	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	switch {
	case fails > 0:
		return fmt.Sprintf("%d issue(s) found", fails)
	case warns > 0:
		return fmt.Sprintf("ok with %d warning(s)", warns)
	default:
		return "all checks passed"
	}
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-12s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

func checkConfig() doctorCheck {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}

	if path == "" {
		return doctorCheck{
			Name:   "config",
			Status: "warn",
			Detail: "no config file found (using defaults). Run: takedownreport doctor --sample-config > takedownreport.yaml",
		}
	}
	if _, err := os.Stat(path); err != nil {
		return doctorCheck{
			Name:   "config",
			Status: "fail",
			Detail: fmt.Sprintf("%s not readable: %v", path, err),
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "ok",
		Detail: path,
	}
}

func checkDataDir() doctorCheck {
	res, err := validator.New().ValidateDataDir(cfg.DataDir)
	if err != nil {
		return doctorCheck{
			Name:   "data",
			Status: "fail",
			Detail: fmt.Sprintf("%s unreadable: %v", cfg.DataDir, err),
		}
	}
	if !res.Valid() {
		return doctorCheck{
			Name:   "data",
			Status: "fail",
			Detail: joinMax(res.Errors, 2),
		}
	}

	present := 0
	for _, fi := range res.Tables {
		if fi.Exists {
			present++
		}
	}
	detail := fmt.Sprintf("%s (%d of %d tables present)", cfg.DataDir, present, len(res.Tables))

	if len(res.Warnings) > 0 {
		return doctorCheck{
			Name:   "data",
			Status: "warn",
			Detail: fmt.Sprintf("%s; %s", detail, joinMax(res.Warnings, 2)),
		}
	}
	return doctorCheck{
		Name:   "data",
		Status: "ok",
		Detail: detail,
	}
}

func checkTemplate() doctorCheck {
	if cfg.Template == "" {
		return doctorCheck{
			Name:   "template",
			Status: "ok",
			Detail: "built-in " + render.DefaultTemplateName,
		}
	}

	if _, err := render.Parse(cfg.Template); err != nil {
		return doctorCheck{
			Name:   "template",
			Status: "fail",
			Detail: err.Error(),
		}
	}
	return doctorCheck{
		Name:   "template",
		Status: "ok",
		Detail: cfg.Template,
	}
}

func checkLogo() doctorCheck {
	if cfg.AssetsDir == "" {
		return doctorCheck{
			Name:   "logo",
			Status: "ok",
			Detail: "not configured (assets_dir empty)",
		}
	}

	path := filepath.Join(cfg.AssetsDir, storage.LogoName)
	if _, err := os.Stat(path); err != nil {
		return doctorCheck{
			Name:   "logo",
			Status: "warn",
			Detail: fmt.Sprintf("%s not found; the report will show a broken image", path),
		}
	}
	return doctorCheck{
		Name:   "logo",
		Status: "ok",
		Detail: path,
	}
}

func checkBrowser() doctorCheck {
	plan := browserPlan(cfg)
	if plan.Found() {
		return doctorCheck{
			Name:   "browser",
			Status: "ok",
			Detail: plan.Selected,
		}
	}

	tried := make([]string, 0, len(plan.Candidates))
	for _, c := range plan.Candidates {
		tried = append(tried, c.Name)
	}

	status := "warn"
	if cfg.PDF {
		status = "fail"
	}
	return doctorCheck{
		Name:   "browser",
		Status: status,
		Detail: fmt.Sprintf("no Chrome or Chromium found (tried %s); PDF output unavailable. Set chrome_path or CHROME_PATH", joinMax(tried, 3)),
	}
}

func checkOutput() doctorCheck {
	outDir := filepath.Dir(cfg.Output)

	info, err := os.Stat(outDir)
	if err != nil {
		return doctorCheck{
			Name:   "output",
			Status: "ok",
			Detail: fmt.Sprintf("%s (will be created on first generate)", outDir),
		}
	}

	if !info.IsDir() {
		return doctorCheck{
			Name:   "output",
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", outDir),
		}
	}

	// Try writing a temp file to check write access
	tmpFile := filepath.Join(outDir, ".doctor-check")
	if err := os.WriteFile(tmpFile, []byte("ok"), 0600); err != nil {
		return doctorCheck{
			Name:   "output",
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", outDir, err),
		}
	}
	_ = os.Remove(tmpFile)

	return doctorCheck{
		Name:   "output",
		Status: "ok",
		Detail: outDir,
	}
}

// joinMax joins up to n strings with ", ".
func joinMax(s []string, n int) string {
	if len(s) <= n {
		return strings.Join(s, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(s[:n], ", "), len(s)-n)
}
