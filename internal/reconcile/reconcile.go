// Package reconcile merges the school registry with the schools implied by
// curriculum records. The two sources share no foreign key: curricula embed
// their own school identifiers and names, which may or may not line up with
// the registry. A cascade of match strategies establishes the correspondence;
// schools only curricula know about get synthesized into the merged set.
package reconcile

import (
	"strings"

	"curriculum-catalog/internal/domain"
)

// TokenOverlapThreshold is the fraction of the smaller token set that must be
// shared for a fuzzy name match. 0.5 reproduces the behavior the catalog UI
// was built against; it is a heuristic, not a business rule, so it stays
// tunable here rather than buried in the matcher.
var TokenOverlapThreshold = 0.5

// Result is the output of a full reconciliation pass.
type Result struct {
	Schools []domain.School
	Mapping domain.SchoolMapping
}

// Strategy tries to find, for one registry school, the school identifier that
// curricula referencing it actually embed. Returns ok=false when the strategy
// has no answer.
type Strategy func(s domain.School, curricula []domain.Curriculum) (id string, ok bool)

// Strategies returns the match cascade in priority order. First success wins;
// an exact id hit always beats a fuzzy name hit.
func Strategies() []Strategy {
	return []Strategy{matchByID, matchByCode, matchByExactName, matchByTokenOverlap}
}

// Merge produces the merged school set and the registry-to-curricula id
// mapping. It always recomputes from scratch: incremental updates against a
// fuzzy matcher invite stale partial matches.
func Merge(registry []domain.School, curricula []domain.Curriculum) Result {
	schools := make([]domain.School, 0, len(registry))
	mapping := make(domain.SchoolMapping, len(registry))

	for _, s := range registry {
		if s.Icon == "" {
			s.Icon = domain.DeriveIcon(s.Name)
		}
		schools = append(schools, s)

		for _, strat := range Strategies() {
			if id, ok := strat(s, curricula); ok {
				mapping[s.ID] = id
				break
			}
		}
	}

	schools = synthesize(schools, curricula)
	return Result{Schools: schools, Mapping: mapping}
}

// synthesize adds a school entry for every curriculum school the registry
// does not know, guarding against case-insensitive name collisions. It never
// touches registry-sourced entries.
func synthesize(schools []domain.School, curricula []domain.Curriculum) []domain.School {
	byID := make(map[string]bool, len(schools))
	byName := make(map[string]bool, len(schools))
	byFoldedName := make(map[string]bool, len(schools))
	for _, s := range schools {
		byID[s.ID] = true
		byName[s.Name] = true
		byFoldedName[strings.ToLower(s.Name)] = true
	}

	for _, c := range curricula {
		if c.SchoolID == "" && c.SchoolName == "" {
			continue
		}
		if c.SchoolID != "" && byID[c.SchoolID] {
			continue
		}
		if c.SchoolName != "" && byName[c.SchoolName] {
			continue
		}
		// Collision guard: an existing school already claims this name.
		if c.SchoolName != "" && byFoldedName[strings.ToLower(c.SchoolName)] {
			continue
		}

		id := c.SchoolID
		if id == "" {
			id = domain.Slug(c.SchoolName)
		}
		name := c.SchoolName
		if name == "" {
			name = id
		}

		s := domain.School{
			ID:            id,
			Name:          name,
			Icon:          domain.DeriveIcon(name),
			FromCurricula: true,
		}
		schools = append(schools, s)
		byID[s.ID] = true
		byName[s.Name] = true
		byFoldedName[strings.ToLower(s.Name)] = true
	}

	return schools
}

func matchByID(s domain.School, curricula []domain.Curriculum) (string, bool) {
	for _, c := range curricula {
		if c.SchoolID != "" && c.SchoolID == s.ID {
			return c.SchoolID, true
		}
	}
	return "", false
}

func matchByCode(s domain.School, curricula []domain.Curriculum) (string, bool) {
	if s.Code == "" {
		return "", false
	}
	for _, c := range curricula {
		if c.SchoolID != "" && c.SchoolID == s.Code {
			return c.SchoolID, true
		}
	}
	return "", false
}

func matchByExactName(s domain.School, curricula []domain.Curriculum) (string, bool) {
	for _, c := range curricula {
		if c.SchoolName != "" && c.SchoolName == s.Name {
			return c.SchoolID, true
		}
	}
	return "", false
}

func matchByTokenOverlap(s domain.School, curricula []domain.Curriculum) (string, bool) {
	for _, c := range curricula {
		if NamesOverlap(s.Name, c.SchoolName) {
			return c.SchoolID, true
		}
	}
	return "", false
}

var stopWords = map[string]bool{
	"school": true,
	"of":     true,
	"and":    true,
	"the":    true,
	"for":    true,
	"in":     true,
}

// Tokenize splits a school name on whitespace, lower-cases it, and drops
// short tokens and stop-words.
func Tokenize(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// NamesOverlap reports whether two school names share enough tokens to be
// treated as the same school. Shared tokens must cover at least
// TokenOverlapThreshold of the smaller token set.
func NamesOverlap(a, b string) bool {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	shared := 0
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		if set[t] && !seen[t] {
			shared++
			seen[t] = true
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(shared) >= TokenOverlapThreshold*float64(smaller)
}
