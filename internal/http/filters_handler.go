package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/analytics"
	"trafficlens/internal/timeframe"
)

// FiltersResponse lists the filter values the dataset supports.
type FiltersResponse struct {
	Pages     []string `json:"pages"`
	Devices   []string `json:"devices"`
	Countries []string `json:"countries"`
	FirstDate string   `json:"first_date"`
	LastDate  string   `json:"last_date"`
}

// Filters returns the distinct filterable values and the dataset's date
// bounds, for populating filter controls.
func (h *Handlers) Filters(c *fiber.Ctx) error {
	opts, err := analytics.GetFilterOptions(h.db)
	if err != nil {
		h.logger.Error("Error fetching filter options", slog.Any("error", err))
		return internalError(c)
	}

	resp := FiltersResponse{
		Pages:     opts.Pages,
		Devices:   opts.Devices,
		Countries: opts.Countries,
	}
	if !opts.FirstDate.IsZero() {
		resp.FirstDate = opts.FirstDate.Format(timeframe.DateLayout)
	}
	if !opts.LastDate.IsZero() {
		resp.LastDate = opts.LastDate.Format(timeframe.DateLayout)
	}

	return c.JSON(resp)
}
