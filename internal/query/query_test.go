package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"curriculum-catalog/internal/domain"
)

func sample() []domain.Curriculum {
	return []domain.Curriculum{
		{ID: "c1", Title: "Data Structures", Code: "CS-201", SchoolID: "S1", SchoolName: "Computing", Department: "Computer Science", ProgramID: domain.ProgramBachelor, Status: domain.StatusApproved, CreatedDate: "2024-03-01"},
		{ID: "c2", Title: "Contract Law", Code: "LAW-101", SchoolID: "S2", SchoolName: "Law", Department: "Private Law", ProgramID: domain.ProgramBachelor, Status: domain.StatusPending, CreatedDate: "2024-01-15"},
		{ID: "c3", Title: "Advanced Databases", Code: "CS-501", SchoolID: "S1", SchoolName: "Computing", Department: "Computer Science", ProgramID: domain.ProgramMasters, Status: domain.StatusDraft, LastModified: "2024-02-10"},
		{ID: "c4", Title: "Anatomy", Code: "MED-110", SchoolID: "S3", SchoolName: "Medicine", Department: "", ProgramID: domain.ProgramBachelor, Status: domain.StatusRejected},
	}
}

func ids(list []domain.Curriculum) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterFreeText(t *testing.T) {
	testCases := []struct {
		term     string
		expected []string
	}{
		{"data", []string{"c1", "c3"}},        // title + "Databases"
		{"law", []string{"c2"}},               // code, school, department
		{"COMPUTING", []string{"c1", "c3"}},   // case-insensitive
		{"cs-2", []string{"c1"}},              // code match
		{"", []string{"c1", "c2", "c3", "c4"}}, // empty term filters nothing
		{"zzz", []string{}},
	}

	for _, tc := range testCases {
		got := Filter(sample(), Criteria{Search: tc.term})
		if diff := cmp.Diff(tc.expected, ids(got)); diff != "" {
			t.Errorf("search %q mismatch (-want +got):\n%s", tc.term, diff)
		}
	}
}

func TestFilterExactFilters(t *testing.T) {
	got := Filter(sample(), Criteria{SchoolID: "S1", ProgramID: domain.ProgramMasters})
	if len(got) != 1 || got[0].ID != "c3" {
		t.Errorf("expected [c3], got %v", ids(got))
	}

	got = Filter(sample(), Criteria{Status: domain.StatusApproved})
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("expected [c1], got %v", ids(got))
	}

	got = Filter(sample(), Criteria{Department: "Computer Science"})
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %v", ids(got))
	}
}

func TestSortNewestOldest(t *testing.T) {
	list := sample()
	Sort(list, SortNewest)
	// c1 2024-03-01, c3 2024-02-10 (lastModified fallback), c2 2024-01-15,
	// c4 no dates (epoch zero).
	want := []string{"c1", "c3", "c2", "c4"}
	if diff := cmp.Diff(want, ids(list)); diff != "" {
		t.Errorf("newest order mismatch (-want +got):\n%s", diff)
	}

	Sort(list, SortOldest)
	want = []string{"c4", "c2", "c3", "c1"}
	if diff := cmp.Diff(want, ids(list)); diff != "" {
		t.Errorf("oldest order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTitleAndDepartment(t *testing.T) {
	list := sample()
	Sort(list, SortTitle)
	want := []string{"c3", "c4", "c2", "c1"}
	if diff := cmp.Diff(want, ids(list)); diff != "" {
		t.Errorf("title order mismatch (-want +got):\n%s", diff)
	}

	list = sample()
	Sort(list, SortDepartment)
	// Empty department sorts first under case-sensitive lexical compare.
	if list[0].ID != "c4" {
		t.Errorf("expected c4 (empty department) first, got %v", ids(list))
	}
}

func TestPaginate(t *testing.T) {
	page := Apply(sample(), Criteria{Sort: SortTitle, Page: 0, PageSize: 3})
	if page.TotalElements != 4 || page.TotalPages != 2 {
		t.Errorf("expected 4 elements over 2 pages, got %d/%d", page.TotalElements, page.TotalPages)
	}
	if !page.HasNext || page.HasPrevious {
		t.Errorf("page 0 of 2: hasNext=%v hasPrevious=%v", page.HasNext, page.HasPrevious)
	}
	if len(page.Items) != 3 {
		t.Errorf("expected 3 items on page 0, got %d", len(page.Items))
	}

	page = Apply(sample(), Criteria{Sort: SortTitle, Page: 1, PageSize: 3})
	if len(page.Items) != 1 || page.HasNext || !page.HasPrevious {
		t.Errorf("page 1 of 2: items=%d hasNext=%v hasPrevious=%v", len(page.Items), page.HasNext, page.HasPrevious)
	}

	// Out-of-range page returns an empty slice, not an error.
	page = Apply(sample(), Criteria{Page: 9, PageSize: 3})
	if len(page.Items) != 0 {
		t.Errorf("expected empty out-of-range page, got %d items", len(page.Items))
	}
}

func TestApplyIsPure(t *testing.T) {
	input := sample()
	crit := Criteria{Search: "c", Sort: SortTitle, PageSize: 10}

	first := Apply(input, crit)
	second := Apply(input, crit)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical inputs produced different output:\n%s", diff)
	}

	// The input slice order must be untouched.
	if diff := cmp.Diff(ids(sample()), ids(input)); diff != "" {
		t.Errorf("input mutated by pipeline:\n%s", diff)
	}
}
