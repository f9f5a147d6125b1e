package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"curriculum-catalog/internal/departments"
	"curriculum-catalog/internal/domain"
	"curriculum-catalog/internal/query"
	"curriculum-catalog/internal/store"
)

type handlers struct {
	store *store.Store
	log   *zap.Logger
}

func (h *handlers) hierarchy(c *fiber.Ctx) error {
	nodes := h.store.Hierarchy()
	out := make([]fiber.Map, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, schoolNodeJSON(n))
	}
	return respond(c, out)
}

func (h *handlers) curriculums(c *fiber.Ctx) error {
	crit := query.Criteria{
		Search:     c.Query("search"),
		SchoolID:   c.Query("schoolId"),
		ProgramID:  domain.ProgramID(c.Query("programId")),
		Department: c.Query("department"),
		Status:     domain.Status(c.Query("status")),
		Sort:       query.SortKey(c.Query("sort", string(query.SortNewest))),
		Page:       c.QueryInt("page", 0),
		PageSize:   c.QueryInt("size", query.DefaultPageSize),
	}

	page := h.store.Filtered(crit)
	return respond(c, fiber.Map{
		"curriculums":   curriculaJSON(page.Items),
		"totalElements": page.TotalElements,
		"totalPages":    page.TotalPages,
		"hasNext":       page.HasNext,
		"hasPrevious":   page.HasPrevious,
	})
}

func (h *handlers) schools(c *fiber.Ctx) error {
	schools := h.store.Schools()
	mapping := h.store.Mapping()
	out := make([]fiber.Map, 0, len(schools))
	for _, s := range schools {
		m := schoolJSON(s)
		if id, ok := mapping[s.ID]; ok {
			m["curriculumSchoolId"] = id
		}
		out = append(out, m)
	}
	return respond(c, out)
}

func (h *handlers) schoolCurriculums(c *fiber.Ctx) error {
	id := c.Params("id")
	return respond(c, curriculaJSON(h.store.CurriculaForSchool(id)))
}

func (h *handlers) schoolDepartments(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.LoadSchoolDepartments(c.Context(), id); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	return respond(c, entryJSON(h.store.SchoolDepartments(id)))
}

func (h *handlers) retryDepartments(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.RetryLoadDepartments(c.Context(), id); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	return respond(c, entryJSON(h.store.SchoolDepartments(id)))
}

func (h *handlers) departments(c *fiber.Ctx) error {
	return respond(c, departmentsJSON(h.store.Departments()))
}

func (h *handlers) search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("name"))
	if term == "" {
		return respondError(c, fiber.StatusBadRequest, "name query parameter is required")
	}
	found, err := h.store.SearchByName(c.Context(), term)
	if err != nil {
		h.log.Warn("backend search failed", zap.String("term", term), zap.Error(err))
		return respondError(c, fiber.StatusBadGateway, "search unavailable")
	}
	return respond(c, curriculaJSON(found))
}

func (h *handlers) refresh(c *fiber.Ctx) error {
	if err := h.store.Refresh(c.Context()); err != nil {
		if errors.Is(err, store.ErrEmptyRefresh) {
			return respondError(c, fiber.StatusBadGateway, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, err.Error())
	}
	return respond(c, fiber.Map{
		"curricula":   len(h.store.Curricula()),
		"schools":     len(h.store.Schools()),
		"refreshedAt": h.store.RefreshedAt(),
	})
}

/* -------- JSON shaping -------- */

func curriculumJSON(cur domain.Curriculum) fiber.Map {
	return fiber.Map{
		"id":            cur.ID,
		"title":         cur.Title,
		"code":          cur.Code,
		"status":        cur.Status,
		"department":    cur.Department,
		"departmentId":  cur.DepartmentID,
		"schoolId":      cur.SchoolID,
		"schoolName":    cur.SchoolName,
		"programId":     cur.ProgramID,
		"programName":   cur.ProgramName,
		"createdDate":   nullable(cur.CreatedDate),
		"lastModified":  nullable(cur.LastModified),
		"effectiveDate": nullable(cur.EffectiveDate),
		"duration":      cur.DurationLabel,
		"active":        cur.Active,
		"createdBy":     cur.CreatedBy,
		"description":   cur.Description,
	}
}

func curriculaJSON(curricula []domain.Curriculum) []fiber.Map {
	out := make([]fiber.Map, 0, len(curricula))
	for _, c := range curricula {
		out = append(out, curriculumJSON(c))
	}
	return out
}

func schoolJSON(s domain.School) fiber.Map {
	return fiber.Map{
		"id":            s.ID,
		"code":          s.Code,
		"name":          s.Name,
		"deanId":        s.DeanID,
		"icon":          s.Icon,
		"fromCurricula": s.FromCurricula,
	}
}

func departmentJSON(d domain.Department) fiber.Map {
	return fiber.Map{
		"id":              d.ID,
		"name":            d.Name,
		"schoolId":        d.SchoolID,
		"schoolName":      d.SchoolName,
		"curriculumCount": d.CurriculumCount,
	}
}

func departmentsJSON(deps []domain.Department) []fiber.Map {
	out := make([]fiber.Map, 0, len(deps))
	for _, d := range deps {
		out = append(out, departmentJSON(d))
	}
	return out
}

func entryJSON(e departments.Entry) fiber.Map {
	m := fiber.Map{
		"state":       e.State.String(),
		"departments": departmentsJSON(e.Departments),
	}
	if e.Err != "" {
		m["error"] = e.Err
	}
	return m
}

func schoolNodeJSON(n domain.SchoolNode) fiber.Map {
	programs := make([]fiber.Map, 0, len(n.Programs))
	for _, p := range n.Programs {
		groups := make([]fiber.Map, 0, len(p.Departments))
		for _, g := range p.Departments {
			groups = append(groups, fiber.Map{
				"name":        g.Name,
				"curriculums": curriculaJSON(g.Curricula),
			})
		}
		programs = append(programs, fiber.Map{
			"id":    p.ID,
			"name":  p.Name,
			"count": p.Count,
			"statusStats": fiber.Map{
				"approved": p.Stats.Approved,
				"pending":  p.Stats.Pending,
				"draft":    p.Stats.Draft,
				"rejected": p.Stats.Rejected,
			},
			"departments": groups,
		})
	}
	return fiber.Map{
		"school":   schoolJSON(n.School),
		"programs": programs,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
