// Package render turns a ReportContext into the final HTML document.
package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/ppiankov/takedownreport/internal/models"
)

var (
	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateSyntax is returned when the template cannot be parsed.
	ErrTemplateSyntax = errors.New("template syntax error")
)

// DefaultTemplateName is the name of the embedded report template.
const DefaultTemplateName = "takedown_report.html"

//go:embed templates/takedown_report.html
var defaultTemplate string

// FuncMap returns the functions available to report templates: the sprig
// HTML-safe set plus a few report helpers.
func FuncMap() template.FuncMap {
	funcMap := sprig.HtmlFuncMap()

	funcMap["inc"] = func(i int) int {
		return i + 1
	}
	funcMap["orDash"] = func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	}
	funcMap["tableRows"] = func(ctx *models.ReportContext, kind string) []models.ThreatRecord {
		return ctx.Rows(models.TableKind(kind))
	}

	return funcMap
}

// Parse loads and parses a template file. The template is named after the
// file's base name.
func Parse(path string) (*template.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return parse(filepath.Base(path), string(content))
}

// Default returns the parsed embedded template.
func Default() (*template.Template, error) {
	return parse(DefaultTemplateName, defaultTemplate)
}

func parse(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(FuncMap()).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateSyntax, name, err)
	}
	return tmpl, nil
}

// Render executes tmpl against ctx. Interpolated strings are HTML-escaped.
func Render(tmpl *template.Template, ctx *models.ReportContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderFile parses the template at path and renders ctx. An empty path
// selects the embedded template.
func RenderFile(path string, ctx *models.ReportContext) (string, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if path == "" {
		tmpl, err = Default()
	} else {
		tmpl, err = Parse(path)
	}
	if err != nil {
		return "", err
	}
	return Render(tmpl, ctx)
}
