package api

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUploadFields(t *testing.T) {
	fields := UploadFields()
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	if fields[0].Name != MetaField || fields[0].Filename != "report_meta.csv" || !fields[0].Required {
		t.Fatalf("unexpected meta field: %+v", fields[0])
	}

	want := map[string]string{
		"taken_down":   "taken_down.csv",
		"under_review": "under_review.csv",
		"in_progress":  "in_progress.csv",
	}
	for _, f := range fields[1:] {
		if f.Required {
			t.Errorf("%s should be optional", f.Name)
		}
		if want[f.Name] != f.Filename {
			t.Errorf("field %s maps to %s, want %s", f.Name, f.Filename, want[f.Name])
		}
	}
}

func TestValidateUploadFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "csv", input: "report_meta.csv"},
		{name: "upper case extension", input: "Taken Down.CSV"},
		{name: "path components ignored", input: `C:\Users\me\meta.csv`},
		{name: "empty", input: "   ", wantErr: true},
		{name: "wrong extension", input: "meta.xlsx", wantErr: true},
		{name: "no extension", input: "meta", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxFilenameLength) + ".csv", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateUploadFilename(%q) err = %v, wantErr=%v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCSVHead(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{name: "plain", input: []byte("a,b\n1,2\n")},
		{name: "bom", input: []byte("\ufeffa,b\n")},
		{name: "empty", input: []byte{}},
		{name: "unicode", input: []byte("domain,remarks\nexample.com,café\n")},
		{name: "nul byte", input: []byte("PK\x03\x04\x00\x00"), wantErr: true},
		{name: "invalid utf8", input: []byte("a,b\n\xff\xfe,1\n"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCSVHead(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCSVHead err = %v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCSVHeadCutRune(t *testing.T) {
	// "é" is two bytes; cut it in half at the sniff boundary
	head := []byte(strings.Repeat("a", sniffBytes-1) + "é")
	if err := ValidateCSVHead(head); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRunID(t *testing.T) {
	good := uuid.NewString()
	if err := ValidateRunID(good); err != nil {
		t.Fatalf("unexpected error for %s: %v", good, err)
	}

	for _, bad := range []string{
		"",
		"../etc/passwd",
		"not-a-uuid",
		strings.ToUpper(good),
		"{" + good + "}",
	} {
		if err := ValidateRunID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
