package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/export"
)

// Export builds the report for the filtered view and streams it as a zip
// archive of CSV sheets. With sheet=<name> only that sheet is returned, as
// a plain CSV.
func (h *Handlers) Export(c *fiber.Ctx) error {
	params, err := h.queryParams(c)
	if err != nil {
		h.logger.Warn("Rejecting export request", slog.Any("error", err))
		return badRequest(c, err)
	}

	report, err := export.BuildReport(h.db, params, h.cfg.InsightTopK)
	if err != nil {
		h.logger.Error("Error building report", slog.Any("error", err))
		return internalError(c)
	}

	stamp := time.Now().UTC().Format("2006-01-02")

	if name := c.Query("sheet"); name != "" {
		sheet := report.Sheet(name)
		if sheet == nil {
			return badRequest(c, fmt.Errorf("unknown sheet %q", name))
		}

		var buf bytes.Buffer
		if err := export.WriteSheetCSV(&buf, *sheet); err != nil {
			h.logger.Error("Error serializing sheet", slog.Any("error", err))
			return internalError(c)
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s_%s.csv"`, h.cfg.AppName, stamp))
		return c.Send(buf.Bytes())
	}

	var buf bytes.Buffer
	if err := export.WriteZip(&buf, report); err != nil {
		h.logger.Error("Error serializing report archive", slog.Any("error", err))
		return internalError(c)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_report_%s.zip"`, h.cfg.AppName, stamp))
	return c.Send(buf.Bytes())
}
