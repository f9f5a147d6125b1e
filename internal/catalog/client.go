package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"curriculum-catalog/internal/httpx"
)

// Client talks to the curriculum backend. All responses decode into loose
// maps first; Normalize and the school/department mappers coerce them into
// the canonical shapes so a missing or oddly-typed field never fails a fetch.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Retry   httpx.RetryPolicy
	Log     *zap.Logger
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Retry: httpx.DefaultRetryPolicy(),
		Log:   zap.NewNop(),
	}
}

// CurriculumPage is one page of the curriculum collection, pre-normalization.
type CurriculumPage struct {
	Items         []map[string]any
	TotalPages    int
	TotalElements int
}

// listEnvelope matches the backend's list/search response. Some deployments
// return the items under "curriculums", others under Spring-style "content".
type listEnvelope struct {
	Data struct {
		Curriculums   []map[string]any `json:"curriculums"`
		Content       []map[string]any `json:"content"`
		TotalPages    int              `json:"totalPages"`
		TotalElements int              `json:"totalElements"`
	} `json:"data"`
}

func (e listEnvelope) items() []map[string]any {
	if len(e.Data.Curriculums) > 0 {
		return e.Data.Curriculums
	}
	return e.Data.Content
}

// ListCurriculumsPage fetches one page of the curriculum collection.
func (c *Client) ListCurriculumsPage(ctx context.Context, page, size int) (CurriculumPage, error) {
	u, err := url.Parse(c.BaseURL + "/curriculums")
	if err != nil {
		return CurriculumPage{}, fmt.Errorf("catalog: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()

	var env listEnvelope
	if err := httpx.DoJSON(ctx, c.HTTP, c.getRequest(u.String()), &env, c.Retry); err != nil {
		return CurriculumPage{}, fmt.Errorf("catalog: list curriculums page=%d: %w", page, err)
	}

	return CurriculumPage{
		Items:         env.items(),
		TotalPages:    env.Data.TotalPages,
		TotalElements: env.Data.TotalElements,
	}, nil
}

// SearchCurriculums runs the backend's incremental name search. It is
// independent of the bulk fetch: the UI uses it for type-ahead against live
// data.
func (c *Client) SearchCurriculums(ctx context.Context, name string, activeOnly bool) ([]map[string]any, error) {
	payload, err := json.Marshal(map[string]any{
		"name":     name,
		"isActive": activeOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal search body: %w", err)
	}

	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/curriculums/search", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)
		return req, nil
	}

	var env listEnvelope
	if err := httpx.DoJSON(ctx, c.HTTP, build, &env, c.Retry); err != nil {
		return nil, fmt.Errorf("catalog: search curriculums: %w", err)
	}
	return env.items(), nil
}

// ListSchools fetches the school registry.
func (c *Client) ListSchools(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := httpx.DoJSON(ctx, c.HTTP, c.getRequest(c.BaseURL+"/schools"), &out, c.Retry); err != nil {
		return nil, fmt.Errorf("catalog: list schools: %w", err)
	}
	return out, nil
}

// ListDepartments fetches the backend-authoritative department list for one
// school. The backend pages this endpoint but a single large page covers any
// real school.
func (c *Client) ListDepartments(ctx context.Context, schoolID string) ([]map[string]any, error) {
	u, err := url.Parse(c.BaseURL + "/departments")
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("schoolId", schoolID)
	q.Set("page", "0")
	q.Set("size", "100")
	u.RawQuery = q.Encode()

	var out []map[string]any
	if err := httpx.DoJSON(ctx, c.HTTP, c.getRequest(u.String()), &out, c.Retry); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getRequest(rawURL string) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		c.authorize(req)
		return req, nil
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}
