package domain

import "testing"

func TestDeriveIcon(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"School of Engineering", "engineering"},
		{"Institute of Technology", "engineering"},
		{"Business School", "business"},
		{"Faculty of Management", "business"},
		{"School of Medicine", "medicine"},
		{"College of Nursing", "medicine"},
		{"School of Law", "law"},
		{"School of Fine Arts", "arts"},
		{"School of Computing", "science"},
		{"Faculty of Informatics", "science"},
		{"College of Education", "education"},
		{"Graduate School", "school"},
		{"", "school"},
	}
	for _, tc := range tests {
		if got := DeriveIcon(tc.name); got != tc.want {
			t.Errorf("DeriveIcon(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"School of Engineering", "school-of-engineering"},
		{"  Trimmed  Name  ", "trimmed-name"},
		{"Ampersand & Co.", "ampersand-co"},
		{"UPPER case 42", "upper-case-42"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProgramName(t *testing.T) {
	tests := []struct {
		id   ProgramID
		want string
	}{
		{ProgramBachelor, "Bachelor"},
		{ProgramMasters, "Masters"},
		{ProgramPhD, "PhD"},
	}
	for _, tc := range tests {
		if got := ProgramName(tc.id); got != tc.want {
			t.Errorf("ProgramName(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestStatusStatsTotal(t *testing.T) {
	s := StatusStats{Approved: 2, Pending: 1, Draft: 3, Rejected: 1}
	if s.Total() != 7 {
		t.Errorf("Total() = %d, want 7", s.Total())
	}
}
