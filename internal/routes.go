package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"trafficlens/internal/http"
	"trafficlens/internal/http/middleware"
)

// apiCORSConfig is the permissive CORS setup shared by the read-only API
// endpoints.
var apiCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept",
}

// mountRoutes attaches all endpoints to the fiber app. Every analytics
// endpoint sits behind the dataset readiness gate; the health check does
// not, so probes work during the initial import.
func (a *Application) mountRoutes(app *fiber.App) {
	handlers := http.NewHandlers(a.DBManager.GetConnection(), a.Config, a.Logger)

	app.Get("/_health", handlers.Health)
	app.Head("/_health", handlers.Health)
	app.Get("/health", handlers.Health)

	api := app.Group("/api/v1",
		cors.New(apiCORSConfig),
		middleware.RequestLogger(a.Logger),
		middleware.DatasetReady(a.Ready))

	api.Get("/dashboard", handlers.Dashboard)
	api.Get("/filters", handlers.Filters)
	api.Get("/export", handlers.Export)

	api.Get("/pages", handlers.Pages)
	api.Get("/devices", handlers.Devices)
	api.Get("/countries", handlers.Countries)
	api.Get("/trends/daily", handlers.DailyTrend)
	api.Get("/trends/hourly", handlers.HourlyProfile)
	api.Get("/trends/weekday", handlers.WeekdayProfile)
	api.Get("/heatmap", handlers.Heatmap)
	api.Get("/segments", handlers.Segments)
	api.Get("/insights", handlers.Insights)
}
