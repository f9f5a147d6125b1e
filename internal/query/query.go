// Package query applies free-text search, exact filters, sort ordering, and
// page slicing over curriculum lists. Everything here is a pure function of
// (list, criteria): identical inputs give identical ordered output, and the
// input slice is never mutated.
package query

import (
	"sort"
	"strings"
	"time"

	"curriculum-catalog/internal/domain"
)

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortTitle      SortKey = "title"
	SortDepartment SortKey = "department"
)

// Criteria bundles every knob of one query. Zero values mean "no filter".
type Criteria struct {
	Search     string
	SchoolID   string // matched against the curriculum's embedded school id
	ProgramID  domain.ProgramID
	Department string
	Status     domain.Status

	Sort SortKey

	Page     int // zero-based
	PageSize int
}

// Page is one slice of the filtered, sorted result set.
type Page struct {
	Items         []domain.Curriculum
	TotalElements int
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
}

// DefaultPageSize applies when Criteria.PageSize is unset.
const DefaultPageSize = 20

// Apply runs the full pipeline: filter, sort, slice.
func Apply(list []domain.Curriculum, c Criteria) Page {
	filtered := Filter(list, c)
	Sort(filtered, c.Sort)
	return paginate(filtered, c.Page, c.PageSize)
}

// Filter returns a new slice holding the curricula matching the criteria.
func Filter(list []domain.Curriculum, c Criteria) []domain.Curriculum {
	term := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]domain.Curriculum, 0, len(list))
	for _, cur := range list {
		if term != "" && !matchesTerm(cur, term) {
			continue
		}
		if c.SchoolID != "" && cur.SchoolID != c.SchoolID {
			continue
		}
		if c.ProgramID != "" && cur.ProgramID != c.ProgramID {
			continue
		}
		if c.Department != "" && cur.Department != c.Department {
			continue
		}
		if c.Status != "" && cur.Status != c.Status {
			continue
		}
		out = append(out, cur)
	}
	return out
}

func matchesTerm(c domain.Curriculum, term string) bool {
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Code), term) ||
		strings.Contains(strings.ToLower(c.SchoolName), term) ||
		strings.Contains(strings.ToLower(c.Department), term)
}

// Sort orders the slice in place. newest/oldest use CreatedDate falling back
// to LastModified, with missing dates sorting as epoch zero; title and
// department compare case-sensitively on the raw field.
func Sort(list []domain.Curriculum, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(list, func(i, j int) bool {
			return sortDate(list[i]).Before(sortDate(list[j]))
		})
	case SortTitle:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Title < list[j].Title
		})
	case SortDepartment:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Department < list[j].Department
		})
	default: // SortNewest
		sort.SliceStable(list, func(i, j int) bool {
			return sortDate(list[j]).Before(sortDate(list[i]))
		})
	}
}

func sortDate(c domain.Curriculum) time.Time {
	for _, v := range []string{c.CreatedDate, c.LastModified} {
		if v == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

func paginate(list []domain.Curriculum, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(list)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	items := make([]domain.Curriculum, end-start)
	copy(items, list[start:end])

	return Page{
		Items:         items,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       page < totalPages-1,
		HasPrevious:   page > 0 && total > 0,
	}
}
