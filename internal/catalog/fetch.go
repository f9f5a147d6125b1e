package catalog

import (
	"context"

	"go.uber.org/zap"

	"curriculum-catalog/internal/concurrency"
	"curriculum-catalog/internal/domain"
	"curriculum-catalog/internal/metrics"
)

// FetchAll retrieves the entire curriculum collection. Page 0 establishes the
// page count; the remaining pages fan out concurrently and reassemble in page
// order. A failed page degrades to an empty page, and a failed page 0 degrades
// to an empty collection, so callers always get a usable (possibly partial)
// result.
func (c *Client) FetchAll(ctx context.Context, pageSize int) []domain.Curriculum {
	if pageSize <= 0 {
		pageSize = 100
	}

	first, err := c.ListCurriculumsPage(ctx, 0, pageSize)
	if err != nil {
		metrics.PageFailures.Inc()
		c.Log.Warn("curriculum fetch: page 0 failed, returning empty collection", zap.Error(err))
		return []domain.Curriculum{}
	}
	metrics.PagesFetched.Inc()

	all := NormalizeAll(first.Items)
	if first.TotalPages <= 1 {
		return all
	}

	rest := make([]int, 0, first.TotalPages-1)
	for p := 1; p < first.TotalPages; p++ {
		rest = append(rest, p)
	}

	pages, errs := concurrency.Map(ctx, rest, concurrency.DefaultOptions(),
		func(ctx context.Context, _ int, page int) ([]domain.Curriculum, error) {
			res, err := c.ListCurriculumsPage(ctx, page, pageSize)
			if err != nil {
				return nil, err
			}
			return NormalizeAll(res.Items), nil
		})

	for i, page := range pages {
		if errs[i] != nil {
			metrics.PageFailures.Inc()
			c.Log.Warn("curriculum fetch: page failed, substituting empty page",
				zap.Int("page", rest[i]), zap.Error(errs[i]))
			continue
		}
		metrics.PagesFetched.Inc()
		all = append(all, page...)
	}

	return all
}

// FetchSchools retrieves and maps the school registry. Transport failure
// degrades to an empty registry so reconciliation can still synthesize
// schools from curricula.
func (c *Client) FetchSchools(ctx context.Context) []domain.School {
	rows, err := c.ListSchools(ctx)
	if err != nil {
		c.Log.Warn("school registry fetch failed, continuing with empty registry", zap.Error(err))
		return []domain.School{}
	}
	out := make([]domain.School, 0, len(rows))
	for _, r := range rows {
		out = append(out, MapSchool(r))
	}
	return out
}
