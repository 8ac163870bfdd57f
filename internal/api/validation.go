package api

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/takedownreport/internal/models"
)

const (
	// MaxFilenameLength bounds client-supplied upload file names.
	MaxFilenameLength = 255

	// MetaField is the form field carrying report_meta.csv.
	MetaField = "report_meta"

	sniffBytes = 512
)

// UploadField maps a form field to the canonical file it is saved as.
type UploadField struct {
	Name     string
	Filename string
	Required bool
}

// UploadFields lists the accepted form fields, metadata first.
func UploadFields() []UploadField {
	fields := []UploadField{{Name: MetaField, Filename: models.MetaFile, Required: true}}
	for _, spec := range models.TableSpecs {
		fields = append(fields, UploadField{Name: string(spec.Kind), Filename: spec.Filename})
	}
	return fields
}

// ValidateUploadFilename checks the client-side name of an uploaded file.
// The name is only used for this check; files are stored under canonical names.
func ValidateUploadFilename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("file name is required")
	}
	if len(name) > MaxFilenameLength {
		return fmt.Errorf("file name exceeds %d characters", MaxFilenameLength)
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%s: only .csv files are accepted", name)
	}
	return nil
}

// ValidateCSVHead rejects content that is clearly not text: NUL bytes or
// invalid UTF-8 within the first bytes of the upload.
func ValidateCSVHead(head []byte) error {
	if len(head) > sniffBytes {
		head = head[:sniffBytes]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return fmt.Errorf("file looks binary, expected CSV text")
	}
	// Trim a rune that may have been cut at the sniff boundary
	for i := 0; i < utf8.UTFMax && len(head) > 0 && !utf8.Valid(head); i++ {
		head = head[:len(head)-1]
	}
	if !utf8.Valid(head) {
		return fmt.Errorf("file is not valid UTF-8")
	}
	return nil
}

// ValidateRunID checks that id is a canonical UUID string.
func ValidateRunID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}
	if parsed.String() != id {
		return fmt.Errorf("invalid run id: expected canonical form")
	}
	return nil
}
