package departments

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"curriculum-catalog/internal/domain"
	"curriculum-catalog/internal/httpx"
	"curriculum-catalog/internal/metrics"
)

// State tags a per-school cache entry. A school is in exactly one state at a
// time; the tag plus one entry struct enforces that structurally, instead of
// three boolean sets that could disagree.
type State int

const (
	StateNotRequested State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "error"
	default:
		return "not_requested"
	}
}

// Entry is a snapshot of one school's department state. In StateErrored the
// department list is present but empty, so consumers can render "no
// departments" instead of staying stuck on a spinner.
type Entry struct {
	State       State
	Departments []domain.Department
	Err         string
}

// FetchFunc loads the backend-authoritative department rows for a school.
type FetchFunc func(ctx context.Context, schoolID string) ([]map[string]any, error)

// Cache lazily loads departments per school. Concurrent loads for the same
// school collapse into one request; loads for different schools run
// independently. Nothing cancels an in-flight load: Retry only clears state
// so a new load may be scheduled.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	fetch      FetchFunc
	schoolName func(schoolID string) string
	log        *zap.Logger
}

type entry struct {
	state State
	deps  []domain.Department
	err   string
}

// NewCache builds a cache. schoolName resolves a display name for mapped
// departments and may be nil.
func NewCache(fetch FetchFunc, schoolName func(string) string, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if schoolName == nil {
		schoolName = func(string) string { return "" }
	}
	return &Cache{
		entries:    make(map[string]*entry),
		fetch:      fetch,
		schoolName: schoolName,
		log:        log,
	}
}

// Load fetches a school's departments once. A school that already loaded,
// failed, or has a load in flight is left alone; only Retry clears a failed
// entry. The error return reflects scheduling only; fetch failures land in
// the entry as classified state, not as a returned error.
func (c *Cache) Load(ctx context.Context, schoolID string) error {
	if schoolID == "" {
		return errors.New("departments: empty school id")
	}

	c.mu.Lock()
	e := c.entries[schoolID]
	if e != nil && e.state != StateNotRequested {
		c.mu.Unlock()
		return nil
	}
	if e == nil {
		e = &entry{}
		c.entries[schoolID] = e
	}
	e.state = StateLoading
	e.err = ""
	c.mu.Unlock()

	rows, err := c.fetch(ctx, schoolID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		e.state = StateErrored
		e.err = classify(err)
		e.deps = []domain.Department{}
		metrics.DepartmentLoads.WithLabelValues("error").Inc()
		c.log.Warn("department load failed",
			zap.String("schoolId", schoolID), zap.String("reason", e.err), zap.Error(err))
		return nil
	}

	name := c.schoolName(schoolID)
	deps := make([]domain.Department, 0, len(rows))
	for _, r := range rows {
		deps = append(deps, mapRow(r, schoolID, name))
	}
	e.state = StateLoaded
	e.deps = deps
	e.err = ""
	metrics.DepartmentLoads.WithLabelValues("ok").Inc()
	return nil
}

// Retry clears a school's cached data and error, then loads again. A load
// already in flight is left alone.
func (c *Cache) Retry(ctx context.Context, schoolID string) error {
	c.mu.Lock()
	if e := c.entries[schoolID]; e != nil {
		if e.state == StateLoading {
			c.mu.Unlock()
			return nil
		}
		delete(c.entries, schoolID)
	}
	c.mu.Unlock()
	return c.Load(ctx, schoolID)
}

// Get returns a snapshot of one school's entry. The department slice is a
// copy; callers can't mutate cache state through it.
func (c *Cache) Get(schoolID string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[schoolID]
	if e == nil {
		return Entry{State: StateNotRequested}
	}
	out := Entry{State: e.state, Err: e.err}
	if e.deps != nil {
		out.Departments = make([]domain.Department, len(e.deps))
		copy(out.Departments, e.deps)
	}
	return out
}

// Reset drops all cached entries; the store calls this on refresh so stale
// department lists don't outlive the collections they were loaded against.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func mapRow(raw map[string]any, schoolID, schoolName string) domain.Department {
	d := domain.Department{SchoolID: schoolID, SchoolName: schoolName}
	if v, ok := raw["name"].(string); ok {
		d.Name = v
	}
	switch v := raw["id"].(type) {
	case string:
		d.ID = v
	case float64:
		d.ID = strconv.FormatInt(int64(v), 10)
	}
	if d.ID == "" {
		d.ID = domain.Slug(d.Name)
	}
	if v, ok := raw["schoolId"].(string); ok && v != "" {
		d.SchoolID = v
	}
	return d
}

// classify maps a load failure to the small fixed set of user-facing
// categories the UI renders.
func classify(err error) string {
	var serr *httpx.StatusError
	if errors.As(err, &serr) {
		switch serr.StatusCode {
		case http.StatusUnauthorized:
			return "Authentication required"
		case http.StatusForbidden:
			return "Permission denied"
		case http.StatusNotFound:
			return "Departments not found"
		case http.StatusInternalServerError:
			return "Server error"
		}
	}
	return "Failed to load departments"
}
