package domain

import "strings"

// School is a school in the merged set: either sourced from the registry
// endpoint or synthesized because curricula referenced a school the registry
// does not know about (FromCurricula=true).
type School struct {
	ID            string
	Code          string
	Name          string
	DeanID        string
	Icon          string
	FromCurricula bool
}

// SchoolMapping maps a registry school id to the school identifier actually
// embedded by curricula referencing that school. A missing key means no
// correspondence was found. It is always rebuilt in full, never patched.
type SchoolMapping map[string]string

// Department is a department either derived from curricula or returned by the
// backend departments endpoint. When the backend assigns no id, ID is a slug
// of the name.
type Department struct {
	ID              string
	Name            string
	SchoolID        string
	SchoolName      string
	CurriculumCount int
}

// DeriveIcon picks an icon keyword for a school from its name. The UI maps
// these to actual glyphs; unknown names fall back to the generic "school".
func DeriveIcon(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "engineering") || strings.Contains(n, "technolog"):
		return "engineering"
	case strings.Contains(n, "business") || strings.Contains(n, "management") || strings.Contains(n, "commerce"):
		return "business"
	case strings.Contains(n, "medic") || strings.Contains(n, "health") || strings.Contains(n, "nursing"):
		return "medicine"
	case strings.Contains(n, "law"):
		return "law"
	case strings.Contains(n, "art") || strings.Contains(n, "design") || strings.Contains(n, "music"):
		return "arts"
	case strings.Contains(n, "science") || strings.Contains(n, "computing") || strings.Contains(n, "informat"):
		return "science"
	case strings.Contains(n, "educat"):
		return "education"
	default:
		return "school"
	}
}

// Slug builds a stable identifier from a display name, used when the backend
// did not assign an id (synthesized schools, unkeyed departments).
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	prevDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
