package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"curriculum-catalog/internal/domain"
)

func TestWriteCatalogCSV(t *testing.T) {
	curricula := []domain.Curriculum{
		{
			ID: "c1", Title: "Robotics", Code: "ENG-301", Status: domain.StatusApproved,
			SchoolID: "99", SchoolName: "School of Engineering",
			ProgramName: "Bachelor", Department: "Mechanical", DepartmentID: "d1",
			CreatedDate: "2024-01-15", DurationLabel: "8 semesters", Active: true,
		},
		{ID: "c2", Title: "Title, with comma", Status: domain.StatusDraft},
	}

	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, curricula); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\r\n") {
		t.Error("reporting format requires CRLF line endings")
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	wantHeader := "CURRICULUM_ID,TITLE,CODE,STATUS,SCHOOL_ID,SCHOOL_NAME,PROGRAM,DEPARTMENT,DEPARTMENT_ID," +
		"CREATED_DATE,LAST_MODIFIED,EFFECTIVE_DATE,DURATION,ACTIVE,CREATED_BY,DESCRIPTION"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header mismatch:\n got %s\nwant %s", got, wantHeader)
	}

	first := rows[1]
	if first[0] != "c1" || first[3] != "approved" || first[13] != "true" {
		t.Errorf("unexpected first row: %v", first)
	}
	if rows[2][1] != "Title, with comma" {
		t.Errorf("comma field must round-trip, got %q", rows[2][1])
	}
}

func TestWriteCatalogCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty export still carries the header, got %d rows", len(rows))
	}
}
