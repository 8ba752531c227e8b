package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
	Records   int64     `json:"records"`
}

// Health reports service and dataset store status.
func (h *Handlers) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	var count int64

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error"
		h.logger.Error("Database connection error", slog.Any("error", err))
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error"
		h.logger.Error("Database ping failed", slog.Any("error", err))
	} else {
		h.db.Table("traffic_records").Count(&count)
	}

	health := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		DBStatus:  dbStatus,
		Records:   count,
	}
	if dbStatus != "ok" {
		health.Status = "degraded"
	}

	return c.JSON(health)
}
