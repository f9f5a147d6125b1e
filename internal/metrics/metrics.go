package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine counters. Registered on the default registry; the server exposes
// them on /metrics.
var (
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_pages_fetched_total",
		Help: "Curriculum pages fetched successfully.",
	})

	PageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_page_failures_total",
		Help: "Curriculum page fetches that failed and were substituted with an empty page.",
	})

	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_refresh_total",
		Help: "Full catalog refresh cycles by result.",
	}, []string{"result"})

	DepartmentLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_department_loads_total",
		Help: "Per-school department loads by result.",
	}, []string{"result"})

	CurriculaCached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_curricula_cached",
		Help: "Curricula held by the aggregate store after the last refresh.",
	})

	SchoolsSynthesized = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_schools_synthesized",
		Help: "Schools synthesized from curricula because the registry did not list them.",
	})
)
