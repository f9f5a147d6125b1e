package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"curriculum-catalog/internal/httpx"
)

func fastClient(baseURL string) *Client {
	c := New(baseURL, "")
	c.Retry = httpx.RetryPolicy{MaxAttempts: 1}
	return c
}

// pageServer serves /curriculums with the given per-page item counts;
// failPages respond 500.
func pageServer(t *testing.T, perPage []int, failPages map[int]bool) *httptest.Server {
	t.Helper()
	total := len(perPage)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/curriculums" {
			http.NotFound(w, r)
			return
		}
		page := 0
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if failPages[page] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		items := make([]map[string]any, 0, perPage[page])
		for i := 0; i < perPage[page]; i++ {
			items = append(items, map[string]any{
				"id":     fmt.Sprintf("p%d-c%d", page, i),
				"name":   fmt.Sprintf("Curriculum %d/%d", page, i),
				"status": "APPROVED",
			})
		}
		resp := map[string]any{
			"data": map[string]any{
				"curriculums":   items,
				"totalPages":    total,
				"totalElements": sum(perPage),
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func sum(ns []int) int {
	s := 0
	for _, n := range ns {
		s += n
	}
	return s
}

func TestFetchAllTotalCoverage(t *testing.T) {
	perPage := []int{3, 3, 2}
	srv := pageServer(t, perPage, nil)
	defer srv.Close()

	got := fastClient(srv.URL).FetchAll(context.Background(), 3)
	if len(got) != sum(perPage) {
		t.Fatalf("expected %d curricula, got %d", sum(perPage), len(got))
	}

	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.ID] {
			t.Errorf("duplicate id %q in result", c.ID)
		}
		seen[c.ID] = true
	}

	// Pages must appear in ascending page order.
	if got[0].ID != "p0-c0" || got[3].ID != "p1-c0" || got[6].ID != "p2-c0" {
		t.Errorf("pages out of order: first ids %q %q %q", got[0].ID, got[3].ID, got[6].ID)
	}
}

func TestFetchAllPartialFailure(t *testing.T) {
	perPage := []int{2, 2, 2, 2, 2}
	srv := pageServer(t, perPage, map[int]bool{2: true})
	defer srv.Close()

	got := fastClient(srv.URL).FetchAll(context.Background(), 2)
	if len(got) != 8 {
		t.Fatalf("expected 8 curricula (page 2 dropped), got %d", len(got))
	}
	for _, c := range got {
		if c.ID == "p2-c0" || c.ID == "p2-c1" {
			t.Errorf("items from failed page 2 should be absent, found %q", c.ID)
		}
	}
}

func TestFetchAllPageZeroFailure(t *testing.T) {
	srv := pageServer(t, []int{2, 2}, map[int]bool{0: true})
	defer srv.Close()

	got := fastClient(srv.URL).FetchAll(context.Background(), 2)
	if len(got) != 0 {
		t.Fatalf("expected empty collection on page 0 failure, got %d items", len(got))
	}
	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
}

func TestFetchAllSinglePage(t *testing.T) {
	srv := pageServer(t, []int{4}, nil)
	defer srv.Close()

	got := fastClient(srv.URL).FetchAll(context.Background(), 10)
	if len(got) != 4 {
		t.Fatalf("expected 4 curricula, got %d", len(got))
	}
}

func TestListCurriculumsPageContentAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"content":       []map[string]any{{"id": "c1"}},
				"totalPages":    1,
				"totalElements": 1,
			},
		})
	}))
	defer srv.Close()

	page, err := fastClient(srv.URL).ListCurriculumsPage(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected content alias to be read, got %d items", len(page.Items))
	}
}

func TestSearchCurriculums(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/curriculums/search" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "data" {
			t.Errorf("expected search name 'data', got %v", body["name"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"curriculums": []map[string]any{{"id": "c9", "name": "Data Science"}},
			},
		})
	}))
	defer srv.Close()

	rows, err := fastClient(srv.URL).SearchCurriculums(context.Background(), "data", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 result, got %d", len(rows))
	}
}

func TestFetchSchoolsDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got := fastClient(srv.URL).FetchSchools(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty registry on failure, got %d", len(got))
	}
}
