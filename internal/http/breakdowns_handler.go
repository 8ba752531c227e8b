package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trafficlens/internal/analytics"
	"trafficlens/internal/segments"
)

// The granular breakdown endpoints serve single sections of the dashboard
// payload, for clients that poll one chart at a time.

func (h *Handlers) breakdown(c *fiber.Ctx, name string,
	fetch func(*gorm.DB, analytics.QueryParams) (any, error)) error {

	params, err := h.queryParams(c)
	if err != nil {
		h.logger.Warn("Rejecting breakdown request",
			slog.String("breakdown", name), slog.Any("error", err))
		return badRequest(c, err)
	}

	data, err := fetch(h.db, params)
	if err != nil {
		h.logger.Error("Error building breakdown",
			slog.String("breakdown", name), slog.Any("error", err))
		return internalError(c)
	}
	return c.JSON(data)
}

// Pages serves the classified per-page aggregates.
func (h *Handlers) Pages(c *fiber.Ctx) error {
	return h.breakdown(c, "pages", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		groups, err := analytics.AggregateByPage(db, params)
		if err != nil {
			return nil, err
		}
		return segments.Classify(groups), nil
	})
}

// Devices serves the per-device aggregates with display names.
func (h *Handlers) Devices(c *fiber.Ctx) error {
	return h.breakdown(c, "devices", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		groups, err := analytics.AggregateByDevice(db, params)
		if err != nil {
			return nil, err
		}
		return displayDeviceNames(groups), nil
	})
}

// Countries serves the per-country aggregates with display names.
func (h *Handlers) Countries(c *fiber.Ctx) error {
	return h.breakdown(c, "countries", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		groups, err := analytics.AggregateByCountry(db, params)
		if err != nil {
			return nil, err
		}
		return displayCountryNames(groups), nil
	})
}

// DailyTrend serves the per-day trend points.
func (h *Handlers) DailyTrend(c *fiber.Ctx) error {
	return h.breakdown(c, "daily", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		return analytics.GetDailyTrend(db, params)
	})
}

// HourlyProfile serves the 24-hour profile.
func (h *Handlers) HourlyProfile(c *fiber.Ctx) error {
	return h.breakdown(c, "hourly", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		return analytics.GetHourlyProfile(db, params)
	})
}

// WeekdayProfile serves the Monday-first weekday profile.
func (h *Handlers) WeekdayProfile(c *fiber.Ctx) error {
	return h.breakdown(c, "weekday", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		return analytics.GetWeekdayProfile(db, params)
	})
}

// Heatmap serves the day-by-hour sessions matrix.
func (h *Handlers) Heatmap(c *fiber.Ctx) error {
	return h.breakdown(c, "heatmap", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		return analytics.GetHeatmap(db, params)
	})
}

// Segments serves the classified pages grouped by category.
func (h *Handlers) Segments(c *fiber.Ctx) error {
	return h.breakdown(c, "segments", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		groups, err := analytics.AggregateByPage(db, params)
		if err != nil {
			return nil, err
		}

		byCategory := map[segments.Category][]segments.Assignment{
			segments.CategoryStarPerformer:            {},
			segments.CategoryHighTrafficLowConversion: {},
			segments.CategoryHiddenGem:                {},
			segments.CategoryNeedsAttention:           {},
		}
		for _, a := range segments.Classify(groups) {
			byCategory[a.Category] = append(byCategory[a.Category], a)
		}
		return byCategory, nil
	})
}

// Insights serves the ranked top-K insights for the filtered view.
func (h *Handlers) Insights(c *fiber.Ctx) error {
	topK := h.cfg.InsightTopK
	return h.breakdown(c, "insights", func(db *gorm.DB, params analytics.QueryParams) (any, error) {
		groups, err := analytics.AggregateByPage(db, params)
		if err != nil {
			return nil, err
		}
		return segments.BuildInsights(segments.Classify(groups), topK), nil
	})
}
