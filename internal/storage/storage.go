package storage

import (
	"time"

	"github.com/ppiankov/takedownreport/internal/models"
)

// Run records one upload-driven generation under its own directory
type Run struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	HTMLPath  string              `json:"html_path"`
	PDFPath   string              `json:"pdf_path,omitempty"`
	PDFError  string              `json:"pdf_error,omitempty"`
	Counts    models.ReportCounts `json:"counts"`
}

// Storage defines the interface for persisting generation runs
type Storage interface {
	// RunDir returns the directory that holds a run's inputs and outputs
	RunDir(id string) string

	// SaveRun stores the manifest of a completed run
	SaveRun(run *Run) error

	// LoadRun loads a run manifest by id
	LoadRun(id string) (*Run, error)

	// ListRuns returns all stored runs oldest first
	ListRuns() ([]*Run, error)
}
