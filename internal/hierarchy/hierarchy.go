// Package hierarchy folds the flat curriculum collection into the
// school → program-level → department tree the catalog UI renders.
package hierarchy

import (
	"sort"

	"curriculum-catalog/internal/domain"
	"curriculum-catalog/internal/reconcile"
)

// Build derives the tree fresh from the merged schools, the id mapping, and
// the curriculum collection. Nothing is persisted or patched between calls.
func Build(schools []domain.School, mapping domain.SchoolMapping, curricula []domain.Curriculum) []domain.SchoolNode {
	nodes := make([]domain.SchoolNode, 0, len(schools))
	for _, s := range schools {
		own := CurriculaForSchool(s, mapping, curricula)
		nodes = append(nodes, domain.SchoolNode{
			School:   s,
			Programs: buildBuckets(own),
		})
	}
	return nodes
}

// CurriculaForSchool selects the curricula belonging to one school through a
// fallback chain: mapped id, then raw id, code, exact name, token-overlap
// name. The first non-empty selection wins so a precise id match is never
// diluted by fuzzy name hits.
func CurriculaForSchool(s domain.School, mapping domain.SchoolMapping, curricula []domain.Curriculum) []domain.Curriculum {
	selectors := []func(domain.Curriculum) bool{
		nil, // mapped id, filled below when present
		func(c domain.Curriculum) bool { return c.SchoolID != "" && c.SchoolID == s.ID },
		func(c domain.Curriculum) bool { return s.Code != "" && c.SchoolID == s.Code },
		func(c domain.Curriculum) bool { return c.SchoolName != "" && c.SchoolName == s.Name },
		func(c domain.Curriculum) bool { return reconcile.NamesOverlap(s.Name, c.SchoolName) },
	}
	if mapped, ok := mapping[s.ID]; ok && mapped != "" {
		selectors[0] = func(c domain.Curriculum) bool { return c.SchoolID == mapped }
	} else {
		selectors = selectors[1:]
	}

	for _, match := range selectors {
		var out []domain.Curriculum
		for _, c := range curricula {
			if match(c) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// buildBuckets groups one school's curricula into the three fixed program
// buckets, dropping empty buckets.
func buildBuckets(curricula []domain.Curriculum) []domain.ProgramBucket {
	buckets := make([]domain.ProgramBucket, 0, len(domain.Programs))
	for _, p := range domain.Programs {
		var subset []domain.Curriculum
		for _, c := range curricula {
			if c.ProgramID == p {
				subset = append(subset, c)
			}
		}
		if len(subset) == 0 {
			continue
		}
		buckets = append(buckets, domain.ProgramBucket{
			ID:          p,
			Name:        domain.ProgramName(p),
			Count:       len(subset),
			Stats:       tally(subset),
			Departments: groupByDepartment(subset),
		})
	}
	return buckets
}

func tally(curricula []domain.Curriculum) domain.StatusStats {
	var s domain.StatusStats
	for _, c := range curricula {
		switch c.Status {
		case domain.StatusApproved:
			s.Approved++
		case domain.StatusPending:
			s.Pending++
		case domain.StatusRejected:
			s.Rejected++
		default:
			s.Draft++
		}
	}
	return s
}

func groupByDepartment(curricula []domain.Curriculum) []domain.DepartmentGroup {
	byName := make(map[string][]domain.Curriculum)
	for _, c := range curricula {
		name := c.Department
		if name == "" {
			name = "General"
		}
		byName[name] = append(byName[name], c)
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]domain.DepartmentGroup, 0, len(names))
	for _, n := range names {
		out = append(out, domain.DepartmentGroup{Name: n, Curricula: byName[n]})
	}
	return out
}
