// Package store owns the process-wide aggregate state: the fetched
// collections, the reconciled school set, and the lazy department cache. It
// is the only thing the serving layer observes. All reads hand out copies; a
// single Refresh entry point replaces state wholesale.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"curriculum-catalog/internal/catalog"
	"curriculum-catalog/internal/departments"
	"curriculum-catalog/internal/domain"
	"curriculum-catalog/internal/hierarchy"
	"curriculum-catalog/internal/metrics"
	"curriculum-catalog/internal/query"
	"curriculum-catalog/internal/reconcile"
)

// Store aggregates and serves the curriculum catalog.
type Store struct {
	client   *catalog.Client
	pageSize int
	log      *zap.Logger

	deps *departments.Cache

	mu          sync.RWMutex
	curricula   []domain.Curriculum
	schools     []domain.School
	mapping     domain.SchoolMapping
	derivedDeps []domain.Department
	refreshedAt time.Time
}

// New wires a store to a backend client.
func New(client *catalog.Client, pageSize int, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		client:   client,
		pageSize: pageSize,
		log:      log,
		mapping:  domain.SchoolMapping{},
	}
	s.deps = departments.NewCache(client.ListDepartments, s.schoolName, log)
	return s
}

// ErrEmptyRefresh marks a refresh that produced no data at all while prior
// data exists; the store keeps the old state in that case.
var ErrEmptyRefresh = errors.New("store: refresh produced no data, keeping previous state")

// Refresh re-fetches the registry and the full curriculum collection, then
// re-derives the merged schools, the id mapping, and the department set
// wholesale. Individual page or registry failures degrade inside the
// fetchers; only a refresh that comes back completely empty while good data
// is already cached is rejected, so a dead backend can't wipe a serving
// cache.
func (s *Store) Refresh(ctx context.Context) error {
	registry := s.client.FetchSchools(ctx)
	curricula := s.client.FetchAll(ctx, s.pageSize)

	if len(registry) == 0 && len(curricula) == 0 {
		s.mu.RLock()
		hadData := len(s.curricula) > 0 || len(s.schools) > 0
		s.mu.RUnlock()
		if hadData {
			metrics.Refreshes.WithLabelValues("kept_previous").Inc()
			s.log.Warn("refresh returned no data, keeping previous state")
			return ErrEmptyRefresh
		}
	}

	merged := reconcile.Merge(registry, curricula)
	derived := departments.Derive(curricula)

	synthesized := 0
	for _, sc := range merged.Schools {
		if sc.FromCurricula {
			synthesized++
		}
	}

	s.mu.Lock()
	s.curricula = curricula
	s.schools = merged.Schools
	s.mapping = merged.Mapping
	s.derivedDeps = derived
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.deps.Reset()

	metrics.Refreshes.WithLabelValues("ok").Inc()
	metrics.CurriculaCached.Set(float64(len(curricula)))
	metrics.SchoolsSynthesized.Set(float64(synthesized))

	s.log.Info("catalog refreshed",
		zap.Int("curricula", len(curricula)),
		zap.Int("schools", len(merged.Schools)),
		zap.Int("synthesized", synthesized),
		zap.Int("departments", len(derived)))
	return nil
}

// Curricula returns a snapshot of the canonical collection.
func (s *Store) Curricula() []domain.Curriculum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Curriculum, len(s.curricula))
	copy(out, s.curricula)
	return out
}

// Schools returns a snapshot of the merged school set.
func (s *Store) Schools() []domain.School {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.School, len(s.schools))
	copy(out, s.schools)
	return out
}

// Mapping returns a snapshot of the registry-to-curricula id mapping.
func (s *Store) Mapping() domain.SchoolMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.SchoolMapping, len(s.mapping))
	for k, v := range s.mapping {
		out[k] = v
	}
	return out
}

// Departments returns a snapshot of the department set derived from
// curricula.
func (s *Store) Departments() []domain.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Department, len(s.derivedDeps))
	copy(out, s.derivedDeps)
	return out
}

// RefreshedAt reports when the last successful refresh completed.
func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Hierarchy builds the school → program → department tree from current state.
func (s *Store) Hierarchy() []domain.SchoolNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hierarchy.Build(s.schools, s.mapping, s.curricula)
}

// Filtered runs the query pipeline over the cached collection.
func (s *Store) Filtered(c query.Criteria) query.Page {
	return query.Apply(s.Curricula(), c)
}

// CurriculaForSchool selects the curricula belonging to one merged school,
// using the reconciliation mapping with the standard fallback chain.
func (s *Store) CurriculaForSchool(schoolID string) []domain.Curriculum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.schools {
		if sc.ID == schoolID {
			return hierarchy.CurriculaForSchool(sc, s.mapping, s.curricula)
		}
	}
	return nil
}

// SearchByName queries the backend's incremental search endpoint and
// normalizes the results. It does not touch cached state.
func (s *Store) SearchByName(ctx context.Context, term string) ([]domain.Curriculum, error) {
	rows, err := s.client.SearchCurriculums(ctx, term, false)
	if err != nil {
		return nil, err
	}
	return catalog.NormalizeAll(rows), nil
}

// LoadSchoolDepartments triggers the lazy per-school department load.
func (s *Store) LoadSchoolDepartments(ctx context.Context, schoolID string) error {
	return s.deps.Load(ctx, schoolID)
}

// RetryLoadDepartments clears one school's department state and reloads.
func (s *Store) RetryLoadDepartments(ctx context.Context, schoolID string) error {
	return s.deps.Retry(ctx, schoolID)
}

// SchoolDepartments returns the tagged department state for one school.
func (s *Store) SchoolDepartments(schoolID string) departments.Entry {
	return s.deps.Get(schoolID)
}

func (s *Store) schoolName(schoolID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.schools {
		if sc.ID == schoolID {
			return sc.Name
		}
	}
	return ""
}
