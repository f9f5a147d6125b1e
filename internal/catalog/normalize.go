package catalog

import (
	"fmt"
	"strings"
	"time"

	"curriculum-catalog/internal/domain"
)

// statusByRaw maps backend status values to the four canonical statuses.
// Keys are case-sensitive; anything not listed (including a missing status)
// normalizes to draft.
var statusByRaw = map[string]domain.Status{
	"APPROVED":     domain.StatusApproved,
	"ACTIVE":       domain.StatusApproved,
	"IN_PROGRESS":  domain.StatusPending,
	"UNDER_REVIEW": domain.StatusPending,
	"PENDING":      domain.StatusPending,
	"REJECTED":     domain.StatusRejected,
}

// Normalize converts one raw backend curriculum record into the canonical
// model. It is total: whatever combination of fields the record carries, it
// returns a valid Curriculum and never errors. Field fallbacks mirror the
// backend's two record dialects (name vs proposedCurriculumName, etc.).
func Normalize(raw map[string]any) domain.Curriculum {
	status := domain.StatusDraft
	if s, ok := statusByRaw[getString(raw, "status")]; ok {
		status = s
	}

	program := mapProgram(getString(raw, "academicLevelName"))

	return domain.Curriculum{
		ID:     getString(raw, "id"),
		Title:  getString(raw, "name", "proposedCurriculumName"),
		Code:   getString(raw, "code", "proposedCurriculumCode"),
		Status: status,

		Department:   getString(raw, "departmentName"),
		DepartmentID: getString(raw, "departmentId"),

		SchoolID:   getString(raw, "schoolId"),
		SchoolName: getString(raw, "schoolName"),

		ProgramID:   program,
		ProgramName: domain.ProgramName(program),

		CreatedDate:   isoDate(getString(raw, "createdAt")),
		LastModified:  isoDate(getString(raw, "updatedAt")),
		EffectiveDate: isoDate(getString(raw, "effectiveDate")),

		DurationLabel: durationLabel(raw),
		Active:        getBool(raw, "isActive"),
		CreatedBy:     getString(raw, "createdBy"),
		Description:   getString(raw, "curriculumDescription"),
	}
}

// NormalizeAll maps a page of raw records.
func NormalizeAll(raw []map[string]any) []domain.Curriculum {
	out := make([]domain.Curriculum, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}

// MapSchool coerces a raw registry school row.
func MapSchool(raw map[string]any) domain.School {
	name := getString(raw, "name")
	return domain.School{
		ID:     getString(raw, "id"),
		Code:   getString(raw, "code"),
		Name:   name,
		DeanID: getString(raw, "deanId"),
		Icon:   domain.DeriveIcon(name),
	}
}

// MapDepartment coerces a raw department row. Rows without a backend id get
// a slug of the name so dedup and UI keys stay stable.
func MapDepartment(raw map[string]any, schoolName string) domain.Department {
	name := getString(raw, "name")
	id := getString(raw, "id")
	if id == "" {
		id = domain.Slug(name)
	}
	return domain.Department{
		ID:         id,
		Name:       name,
		SchoolID:   getString(raw, "schoolId"),
		SchoolName: schoolName,
	}
}

// mapProgram buckets an academic-level label by substring: "phd"/"doctor"
// mean PhD, "master" means Masters, everything else (including absent) is
// Bachelor.
func mapProgram(level string) domain.ProgramID {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "phd") || strings.Contains(l, "doctor"):
		return domain.ProgramPhD
	case strings.Contains(l, "master"):
		return domain.ProgramMasters
	default:
		return domain.ProgramBachelor
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// isoDate reduces a backend timestamp to yyyy-mm-dd. Malformed or missing
// input becomes the empty string rather than an error.
func isoDate(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func durationLabel(raw map[string]any) string {
	n, ok := getInt(raw, "durationSemesters")
	if !ok || n <= 0 {
		return ""
	}
	if n == 1 {
		return "1 semester"
	}
	return fmt.Sprintf("%d semesters", n)
}

// Raw records come from whatever the backend serializes, so the accessors
// tolerate numbers where strings are expected and vice versa.

func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		case bool:
			return fmt.Sprintf("%t", t)
		default:
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

func getBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return strings.EqualFold(t, "true")
		case float64:
			return t != 0
		}
	}
	return false
}

func getInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case int:
			return t, true
		case string:
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
