// Package http contains the JSON API handlers.
package http

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trafficlens/internal/analytics"
	"trafficlens/internal/config"
	"trafficlens/internal/timeframe"
)

// Handlers bundles the dependencies shared by all API handlers.
type Handlers struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers wires the API handlers to their dependencies.
func NewHandlers(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{db: db, cfg: cfg, logger: logger}
}

// queryParams builds analytics query params from the request's query
// string: from_date and to_date (YYYY-MM-DD, defaulting to the dataset
// bounds), comma-separated pages, devices and countries filters, and limit.
func (h *Handlers) queryParams(c *fiber.Ctx) (analytics.QueryParams, error) {
	opts, err := analytics.GetFilterOptions(h.db)
	if err != nil {
		return analytics.QueryParams{}, err
	}

	tf, err := timeframe.NewParser().Parse(timeframe.ParserParams{
		FromDate:     c.Query("from_date"),
		ToDate:       c.Query("to_date"),
		DatasetFirst: opts.FirstDate,
		DatasetLast:  opts.LastDate,
	})
	if err != nil {
		return analytics.QueryParams{}, err
	}

	params := analytics.NewQueryParams(tf)
	params.Pages = splitFilter(c.Query("pages"))
	params.Devices = splitFilter(c.Query("devices"))
	params.Countries = splitFilter(c.Query("countries"))

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	return params, nil
}

func splitFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
