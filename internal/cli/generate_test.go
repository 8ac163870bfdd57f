package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withGenerateFlags restores generate flag globals after the test.
func withGenerateFlags(t *testing.T) {
	t.Helper()
	oldData, oldTmpl, oldOut := generateDataDir, generateTemplate, generateOutput
	oldAssets, oldOutcomes, oldPDF := generateAssetsDir, generateKeyOutcomes, generatePDF
	t.Cleanup(func() {
		generateDataDir, generateTemplate, generateOutput = oldData, oldTmpl, oldOut
		generateAssetsDir, generateKeyOutcomes, generatePDF = oldAssets, oldOutcomes, oldPDF
	})
	generateDataDir, generateTemplate, generateOutput = "", "", ""
	generateAssetsDir, generateKeyOutcomes, generatePDF = "", "", false
}

func TestRunGenerateHTML(t *testing.T) {
	withGenerateFlags(t)
	c := testConfig(t, writeDataDir(t))
	withTestConfig(t, c)

	var err error
	output := captureStdout(t, func() {
		err = runGenerate(nil, nil)
	})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if !strings.Contains(output, "HTML report saved to: "+c.Output) {
		t.Errorf("expected saved path in output, got %q", output)
	}
	if strings.Contains(output, "PDF report saved") {
		t.Error("did not expect a PDF")
	}

	html, err := os.ReadFile(c.Output)
	if err != nil {
		t.Fatalf("expected HTML output: %v", err)
	}
	for _, frag := range []string{"evil.example", "slow.example", "01 February 2026"} {
		if !strings.Contains(string(html), frag) {
			t.Errorf("expected HTML to contain %q", frag)
		}
	}
}

func TestRunGenerateFlagsOverrideConfig(t *testing.T) {
	withGenerateFlags(t)
	withTestConfig(t, testConfig(t, "/nonexistent/data"))

	generateDataDir = writeDataDir(t)
	generateOutput = filepath.Join(t.TempDir(), "custom.html")

	var err error
	captureStdout(t, func() {
		err = runGenerate(nil, nil)
	})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if _, err := os.Stat(generateOutput); err != nil {
		t.Errorf("expected output at flag path: %v", err)
	}
}

func TestRunGeneratePDF(t *testing.T) {
	withGenerateFlags(t)
	c := testConfig(t, writeDataDir(t))
	withTestConfig(t, c)
	conv := &fakeConverter{}
	withConverter(t, conv)
	generatePDF = true

	var err error
	output := captureStdout(t, func() {
		err = runGenerate(nil, nil)
	})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if len(conv.calls) != 1 || conv.calls[0] != c.Output {
		t.Errorf("unexpected converter calls %v", conv.calls)
	}
	if !strings.Contains(output, "PDF report saved to: ") {
		t.Errorf("expected PDF path in output, got %q", output)
	}
}

func TestRunGeneratePDFFailureKeepsHTML(t *testing.T) {
	withGenerateFlags(t)
	c := testConfig(t, writeDataDir(t))
	c.PDF = true
	withTestConfig(t, c)
	withConverter(t, &fakeConverter{err: errors.New("chrome crashed")})

	var err error
	output := captureStdout(t, func() {
		err = runGenerate(nil, nil)
	})
	if err == nil {
		t.Fatal("expected PDF error")
	}
	if code := HandleError(err); code != ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, ExitRuntimeError)
	}
	if !strings.Contains(output, "HTML report saved to:") {
		t.Error("expected HTML path to be reported")
	}
	if _, statErr := os.Stat(c.Output); statErr != nil {
		t.Errorf("expected HTML kept: %v", statErr)
	}
}

func TestRunGenerateInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{"missing data dir", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") }},
		{"missing meta", func(t *testing.T) string { return t.TempDir() }},
		{"header only meta", func(t *testing.T) string {
			dir := t.TempDir()
			writeFile(t, dir, "report_meta.csv", "report_date,prepared_by\n")
			return dir
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGenerateFlags(t)
			c := testConfig(t, tt.setup(t))
			withTestConfig(t, c)

			var err error
			output := captureStdout(t, func() {
				err = runGenerate(nil, nil)
			})
			if code := HandleError(err); code != ExitInvalidInput {
				t.Errorf("exit code = %d (%v), want %d", code, err, ExitInvalidInput)
			}
			if output != "" {
				t.Errorf("expected no output, got %q", output)
			}
			if _, statErr := os.Stat(c.Output); !os.IsNotExist(statErr) {
				t.Error("expected no HTML to be written")
			}
		})
	}
}

func TestRunGenerateBadTemplate(t *testing.T) {
	withGenerateFlags(t)
	withTestConfig(t, testConfig(t, writeDataDir(t)))
	generateTemplate = filepath.Join(t.TempDir(), "missing.html")

	err := runGenerate(nil, nil)
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitInvalidInput)
	}
}

func TestRunGenerateKeyOutcomesFile(t *testing.T) {
	withGenerateFlags(t)
	c := testConfig(t, writeDataDir(t))
	withTestConfig(t, c)

	dir := t.TempDir()
	writeFile(t, dir, "outcomes.yaml", "- Custom outcome one\n- Custom outcome two\n")
	generateKeyOutcomes = filepath.Join(dir, "outcomes.yaml")

	var err error
	captureStdout(t, func() {
		err = runGenerate(nil, nil)
	})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	html, _ := os.ReadFile(c.Output)
	if !strings.Contains(string(html), "Custom outcome two") {
		t.Error("expected custom key outcomes in HTML")
	}
}

func TestGenerateOptionsNoConverterWithoutPDF(t *testing.T) {
	withGenerateFlags(t)
	withTestConfig(t, testConfig(t, "data"))
	conv := &fakeConverter{}
	withConverter(t, conv)

	opts := generateOptions()
	if opts.PDF || opts.Converter != nil {
		t.Errorf("expected no PDF and no converter, got pdf=%t converter=%v", opts.PDF, opts.Converter)
	}

	generatePDF = true
	opts = generateOptions()
	if !opts.PDF || opts.Converter != conv {
		t.Error("expected converter when --pdf is set")
	}
}
