package departments

import "curriculum-catalog/internal/domain"

// Derive builds the deduplicated department set from the curriculum
// collection in one scan. The dedup key is the backend department id when
// present, otherwise the display name. Counts accumulate across duplicates.
func Derive(curricula []domain.Curriculum) []domain.Department {
	index := make(map[string]int)
	out := make([]domain.Department, 0, 32)

	for _, c := range curricula {
		if c.Department == "" && c.DepartmentID == "" {
			continue
		}

		key := c.DepartmentID
		if key == "" {
			key = c.Department
		}

		if i, ok := index[key]; ok {
			out[i].CurriculumCount++
			continue
		}

		id := c.DepartmentID
		if id == "" {
			id = domain.Slug(c.Department)
		}
		index[key] = len(out)
		out = append(out, domain.Department{
			ID:              id,
			Name:            c.Department,
			SchoolID:        c.SchoolID,
			SchoolName:      c.SchoolName,
			CurriculumCount: 1,
		})
	}

	return out
}
