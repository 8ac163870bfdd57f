package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrRunNotFound is returned when no manifest exists for a run id
var ErrRunNotFound = errors.New("run not found")

const manifestName = "run.json"

// LocalStorage implements Storage on the local filesystem.
// Each run lives in <baseDir>/<id>/ next to its run.json manifest.
type LocalStorage struct {
	baseDir string
}

// NewLocal creates a new local storage instance
func NewLocal(baseDir string) *LocalStorage {
	return &LocalStorage{
		baseDir: baseDir,
	}
}

// RunDir returns the directory for a run id
func (s *LocalStorage) RunDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// SaveRun writes the run manifest
func (s *LocalStorage) SaveRun(run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	dir := s.RunDir(run.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadRun loads a run manifest by id
func (s *LocalStorage) LoadRun(id string) (*Run, error) {
	path := filepath.Join(s.RunDir(id), manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// ListRuns returns all stored runs sorted chronologically
func (s *LocalStorage) ListRuns() ([]*Run, error) {
	if _, err := os.Stat(s.baseDir); os.IsNotExist(err) {
		return []*Run{}, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	runs := make([]*Run, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := s.LoadRun(entry.Name())
		if err != nil {
			// Directories without a readable manifest are in-flight or foreign
			continue
		}
		runs = append(runs, run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})

	return runs, nil
}

// GetStoragePath returns the full path to the storage directory
func (s *LocalStorage) GetStoragePath() string {
	return s.baseDir
}

// EnsureDirectoryExists creates the storage directory if it doesn't exist
func (s *LocalStorage) EnsureDirectoryExists() error {
	return os.MkdirAll(s.baseDir, 0755)
}
