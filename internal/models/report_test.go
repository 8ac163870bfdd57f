package models

import "testing"

func TestGetTableSpec(t *testing.T) {
	for _, kind := range []TableKind{TableTakenDown, TableUnderReview, TableInProgress} {
		spec, ok := GetTableSpec(kind)
		if !ok {
			t.Fatalf("expected spec for %s", kind)
		}
		if spec.Kind != kind || spec.Filename != string(kind)+".csv" {
			t.Errorf("unexpected spec %+v", spec)
		}
	}

	if _, ok := GetTableSpec("unknown"); ok {
		t.Error("expected no spec for unknown kind")
	}
}

func TestTableSpecColumns(t *testing.T) {
	spec, _ := GetTableSpec(TableTakenDown)
	if len(spec.Columns) != 5 {
		t.Errorf("taken_down should track 5 columns, got %d", len(spec.Columns))
	}
	for _, kind := range []TableKind{TableUnderReview, TableInProgress} {
		spec, _ := GetTableSpec(kind)
		for _, col := range spec.Columns {
			if col == ColLastUpdated {
				t.Errorf("%s should not track last_updated", kind)
			}
		}
	}
}

func TestThreatRecordField(t *testing.T) {
	r := ThreatRecord{
		DomainURL:      "evil.example",
		ReportedOn:     "01 Feb",
		LastUpdated:    "02 Feb",
		ThreatCategory: "Phishing",
		Remarks:        "Closed",
	}
	tests := map[string]string{
		ColDomainURL:      "evil.example",
		ColReportedOn:     "01 Feb",
		ColLastUpdated:    "02 Feb",
		ColThreatCategory: "Phishing",
		ColRemarks:        "Closed",
		"other":           "",
	}
	for col, want := range tests {
		if got := r.Field(col); got != want {
			t.Errorf("Field(%q) = %q, want %q", col, got, want)
		}
	}
}

func TestReportContextRows(t *testing.T) {
	ctx := &ReportContext{
		TakenDownRows:   []ThreatRecord{{DomainURL: "a"}},
		UnderReviewRows: []ThreatRecord{{DomainURL: "b"}, {DomainURL: "c"}},
	}
	if got := len(ctx.Rows(TableTakenDown)); got != 1 {
		t.Errorf("taken_down rows = %d", got)
	}
	if got := len(ctx.Rows(TableUnderReview)); got != 2 {
		t.Errorf("under_review rows = %d", got)
	}
	if got := ctx.Rows(TableInProgress); got != nil {
		t.Errorf("expected nil in_progress rows, got %v", got)
	}
	if got := ctx.Rows("unknown"); got != nil {
		t.Errorf("expected nil for unknown kind, got %v", got)
	}
}
