package discovery

import (
	"os"
)

// LookPathFunc matches the signature of exec.LookPath.
type LookPathFunc func(file string) (string, error)

// GetenvFunc matches the signature of os.Getenv.
type GetenvFunc func(key string) string

// StatFunc reports whether a regular file exists at path.
type StatFunc func(path string) bool

// Discoverer probes the local environment for a Chrome or Chromium binary
// usable for PDF rendering. Injectable deps make it fully testable.
type Discoverer struct {
	lookPath LookPathFunc
	getenv   GetenvFunc
	exists   StatFunc
}

// New creates a Discoverer with the given dependency functions.
// A nil exists func falls back to checking the real filesystem.
func New(lookPath LookPathFunc, getenv GetenvFunc, exists StatFunc) *Discoverer {
	if exists == nil {
		exists = fileExists
	}
	return &Discoverer{
		lookPath: lookPath,
		getenv:   getenv,
		exists:   exists,
	}
}

// Candidate describes one probed browser location.
type Candidate struct {
	Name      string `json:"name"`
	Source    string `json:"source"` // config, env, path, well-known
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
}

// BrowserPlan is the complete result of a discovery scan.
type BrowserPlan struct {
	Candidates []Candidate `json:"candidates"`
	Selected   string      `json:"selected,omitempty"`
}

// Found reports whether a usable browser was selected.
func (p *BrowserPlan) Found() bool {
	return p.Selected != ""
}

// Discover looks for a browser. An explicit configured path wins, then the
// CHROME_PATH environment variable, then PATH lookups, then well-known
// install locations. The first available candidate is selected. No
// processes are started.
func (d *Discoverer) Discover(configured string) *BrowserPlan {
	plan := &BrowserPlan{}

	consider := func(c Candidate) {
		plan.Candidates = append(plan.Candidates, c)
		if c.Available && plan.Selected == "" {
			plan.Selected = c.Path
		}
	}

	if configured != "" {
		consider(Candidate{Name: configured, Source: "config", Path: configured, Available: d.exists(configured)})
	}

	if env := d.getenv(EnvChromePath); env != "" {
		consider(Candidate{Name: EnvChromePath, Source: "env", Path: env, Available: d.exists(env)})
	}

	for _, name := range BrowserBinaries {
		c := Candidate{Name: name, Source: "path"}
		if path, err := d.lookPath(name); err == nil && path != "" {
			c.Path = path
			c.Available = true
		}
		consider(c)
	}

	if plan.Selected == "" {
		for _, path := range WellKnownPaths {
			consider(Candidate{Name: path, Source: "well-known", Path: path, Available: d.exists(path)})
		}
	}

	return plan
}

// fileExists checks if a file exists (not a directory).
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
