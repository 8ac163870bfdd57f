package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/takedownreport/internal/loader"
	"github.com/ppiankov/takedownreport/internal/render"
	"github.com/ppiankov/takedownreport/internal/storage"
)

type fakeConverter struct {
	calls []string
	err   error
}

func (f *fakeConverter) Convert(_ context.Context, htmlPath string) (string, error) {
	f.calls = append(f.calls, htmlPath)
	if f.err != nil {
		return "", f.err
	}
	pdfPath := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".pdf"
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0644); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write(t, dir, "report_meta.csv",
		"report_date,prepared_by,reporting_window,reactivated_domains\n"+
			"01 March 2026,SOC Team,Feb 2026,a.example; b.example\n")
	write(t, dir, "taken_down.csv",
		"Domain / URL,Reported On,Last Updated,Threat Category,Remarks\n"+
			"evil.example,01 Feb,03 Feb,Phishing,Closed\n"+
			"bad.example,02 Feb,04 Feb,Malware,<b>Closed</b>\n")
	write(t, dir, "under_review.csv",
		"domain_url,reported_on,threat_category,remarks\n"+
			"review.example,05 Feb,Phishing,Pending\n")
	return dir
}

func TestGenerateHTMLOnly(t *testing.T) {
	data := dataDir(t)
	out := filepath.Join(t.TempDir(), "out", "report.html")

	res, err := Generate(context.Background(), Options{DataDir: data, Output: out})
	require.NoError(t, err)

	assert.Equal(t, out, res.HTMLPath)
	assert.Empty(t, res.PDFPath)
	assert.Equal(t, 2, res.Counts.TakenDown)
	assert.Equal(t, 1, res.Counts.UnderReview)
	assert.Equal(t, 0, res.Counts.InProgress)
	assert.Equal(t, 3, res.Counts.TotalThreats)
	assert.False(t, res.LogoCopied)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "evil.example")
	assert.Contains(t, string(html), "a.example, b.example")
	assert.Contains(t, string(html), "&lt;b&gt;Closed&lt;/b&gt;")
	for _, outcome := range loader.DefaultKeyOutcomes {
		assert.Contains(t, string(html), outcome)
	}
}

func TestGenerateWithPDF(t *testing.T) {
	data := dataDir(t)
	out := filepath.Join(t.TempDir(), "report.html")
	conv := &fakeConverter{}

	res, err := Generate(context.Background(), Options{
		DataDir:   data,
		Output:    out,
		PDF:       true,
		Converter: conv,
	})
	require.NoError(t, err)
	require.Len(t, conv.calls, 1)
	assert.Equal(t, out, conv.calls[0])
	assert.Equal(t, filepath.Join(filepath.Dir(out), "report.pdf"), res.PDFPath)
	assert.FileExists(t, res.PDFPath)
}

func TestGeneratePDFFailureKeepsHTML(t *testing.T) {
	data := dataDir(t)
	out := filepath.Join(t.TempDir(), "report.html")
	boom := errors.New("browser crashed")

	res, err := Generate(context.Background(), Options{
		DataDir:   data,
		Output:    out,
		PDF:       true,
		Converter: &fakeConverter{err: boom},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPDFFailed)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Equal(t, out, res.HTMLPath)
	assert.Empty(t, res.PDFPath)
	assert.FileExists(t, out)
}

func TestGeneratePDFWithoutConverter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.html")
	_, err := Generate(context.Background(), Options{DataDir: dataDir(t), Output: out, PDF: true})
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestGenerateCopiesLogo(t *testing.T) {
	data := dataDir(t)
	assets := t.TempDir()
	write(t, assets, storage.LogoName, "png-bytes")
	outDir := filepath.Join(t.TempDir(), "nested")
	out := filepath.Join(outDir, "report.html")

	res, err := Generate(context.Background(), Options{DataDir: data, Output: out, AssetsDir: assets})
	require.NoError(t, err)
	assert.True(t, res.LogoCopied)
	assert.FileExists(t, filepath.Join(outDir, storage.LogoName))

	// Second run finds the copy current
	res, err = Generate(context.Background(), Options{DataDir: data, Output: out, AssetsDir: assets})
	require.NoError(t, err)
	assert.False(t, res.LogoCopied)
}

func TestGenerateMissingAssetsIsFine(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.html")
	_, err := Generate(context.Background(), Options{
		DataDir:   dataDir(t),
		Output:    out,
		AssetsDir: filepath.Join(t.TempDir(), "nope"),
	})
	require.NoError(t, err)
}

func TestGenerateInputErrorsWriteNothing(t *testing.T) {
	emptyMeta := t.TempDir()
	write(t, emptyMeta, "report_meta.csv", "report_date,prepared_by\n")

	badTemplate := filepath.Join(t.TempDir(), "bad.html")
	require.NoError(t, os.WriteFile(badTemplate, []byte("{{ .Meta.ReportDate "), 0644))

	notADir := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))

	tests := []struct {
		name    string
		opts    func(out string) Options
		wantErr error
	}{
		{
			name: "missing data dir",
			opts: func(out string) Options {
				return Options{DataDir: filepath.Join(t.TempDir(), "missing"), Output: out}
			},
			wantErr: ErrDataDir,
		},
		{
			name: "data dir is a file",
			opts: func(out string) Options {
				return Options{DataDir: notADir, Output: out}
			},
			wantErr: ErrDataDir,
		},
		{
			name: "missing meta",
			opts: func(out string) Options {
				return Options{DataDir: t.TempDir(), Output: out}
			},
			wantErr: loader.ErrMissingFile,
		},
		{
			name: "empty meta",
			opts: func(out string) Options {
				return Options{DataDir: emptyMeta, Output: out}
			},
			wantErr: loader.ErrEmptyData,
		},
		{
			name: "missing template",
			opts: func(out string) Options {
				return Options{DataDir: dataDir(t), Template: filepath.Join(t.TempDir(), "nope.html"), Output: out}
			},
			wantErr: render.ErrTemplateNotFound,
		},
		{
			name: "template syntax",
			opts: func(out string) Options {
				return Options{DataDir: dataDir(t), Template: badTemplate, Output: out}
			},
			wantErr: render.ErrTemplateSyntax,
		},
		{
			name: "missing key outcomes file",
			opts: func(out string) Options {
				return Options{DataDir: dataDir(t), KeyOutcomesFile: filepath.Join(t.TempDir(), "none.yaml"), Output: out}
			},
			wantErr: ErrKeyOutcomes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "out")
			out := filepath.Join(outDir, "report.html")

			res, err := Generate(context.Background(), tt.opts(out))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.NoDirExists(t, outDir)
		})
	}
}

func TestGenerateCustomTemplate(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(tmpl, []byte(
		`<p>{{ .Meta.PreparedBy }}|{{ .Counts.TotalThreats }}|{{ range .KeyOutcomes }}[{{ . }}]{{ end }}</p>`), 0644))
	out := filepath.Join(t.TempDir(), "report.html")

	_, err := Generate(context.Background(), Options{
		DataDir:     dataDir(t),
		Template:    tmpl,
		Output:      out,
		KeyOutcomes: []string{"one", "two"},
	})
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>SOC Team|3|[one][two]</p>", string(html))
}

func TestGenerateKeyOutcomesFile(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(tmpl, []byte(`{{ range .KeyOutcomes }}[{{ . }}]{{ end }}`), 0644))
	outcomes := filepath.Join(t.TempDir(), "outcomes.yaml")
	require.NoError(t, os.WriteFile(outcomes, []byte("key_outcomes:\n  - from file\n"), 0644))
	out := filepath.Join(t.TempDir(), "report.html")

	_, err := Generate(context.Background(), Options{
		DataDir:         dataDir(t),
		Template:        tmpl,
		Output:          out,
		KeyOutcomesFile: outcomes,
	})
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[from file]", string(html))
}

func TestGenerateEmptyOutput(t *testing.T) {
	_, err := Generate(context.Background(), Options{DataDir: dataDir(t)})
	require.Error(t, err)
}
