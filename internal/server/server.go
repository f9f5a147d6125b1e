// Package server exposes the aggregation engine to the catalog UI over HTTP.
// The engine itself never throws past its boundary for expected failures;
// these handlers translate its state flags into enveloped JSON.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"curriculum-catalog/internal/store"
)

// New builds the fiber app over an aggregate store.
func New(st *store.Store, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	app.Use(compress.New())

	// Request-ID + timing.
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		start := time.Now()
		err := c.Next()
		log.Debug("request",
			zap.String("id", id),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("dur", time.Since(start)))
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h := &handlers{store: st, log: log}

	api := app.Group("/api/catalog")
	api.Get("/hierarchy", h.hierarchy)
	api.Get("/curriculums", h.curriculums)
	api.Get("/schools", h.schools)
	api.Get("/schools/:id/curriculums", h.schoolCurriculums)
	api.Get("/schools/:id/departments", h.schoolDepartments)
	api.Post("/schools/:id/departments/retry", h.retryDepartments)
	api.Get("/departments", h.departments)
	api.Get("/search", h.search)
	api.Post("/refresh", h.refresh)

	return app
}
