package internal_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal"
	"trafficlens/internal/analytics"
	"trafficlens/internal/config"
	"trafficlens/internal/http"
	"trafficlens/internal/records"
	"trafficlens/internal/segments"
	"trafficlens/internal/testsupport"
)

func setupTestApp(t *testing.T) *internal.Application {
	t.Helper()

	cfg := config.GetConfig()
	cfg.Environment = config.Test
	cfg.DataFile = ""
	cfg.DatabaseDSN = fmt.Sprintf("file:routes_%d?mode=memory&cache=shared", time.Now().UnixNano())

	app, err := internal.NewAppWithConfig(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		app.DBManager.Close()
	})
	return app
}

func seedTestApp(t *testing.T, app *internal.Application) {
	t.Helper()

	day := testsupport.Day(2025, time.March, 10, 9)
	require.NoError(t, app.ImportRecords([]records.TrafficRecord{
		testsupport.MakeRecord(day, "/home", 100, 10),
		testsupport.MakeRecord(day.Add(2*time.Hour), "/pricing", 50, 15),
		testsupport.WithDevice(testsupport.MakeRecord(day.AddDate(0, 0, 1), "/docs", 30, 1), records.DeviceMobile),
		testsupport.WithCountry(testsupport.MakeRecord(day.AddDate(0, 0, 2), "/blog", 20, 2), "DE"),
	}))
}

func TestAnalyticsEndpointsUnavailableBeforeImport(t *testing.T) {
	app := setupTestApp(t)

	paths := []string{
		"/api/v1/dashboard", "/api/v1/filters", "/api/v1/export",
		"/api/v1/pages", "/api/v1/segments", "/api/v1/insights",
	}
	for _, path := range paths {
		resp, err := app.Server().Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Server().Test(httptest.NewRequest("GET", "/_health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health http.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DBStatus)

	resp, err = app.Server().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDashboardEndpoint(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/dashboard", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dashboard http.DashboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dashboard))

	require.NotNil(t, dashboard.Totals)
	assert.Equal(t, int64(4), dashboard.Totals.RecordCount)
	assert.Equal(t, int64(200), dashboard.Totals.TotalSessions)

	require.Len(t, dashboard.Pages, 4)
	assert.Equal(t, "/home", dashboard.Pages[0].Key)
	assert.NotEmpty(t, dashboard.Pages[0].Category)

	assert.Len(t, dashboard.HourlyProfile, 24)
	assert.Len(t, dashboard.WeekdayProfile, 7)
	require.NotNil(t, dashboard.Heatmap)
	assert.Len(t, dashboard.Heatmap.Days, 7)
	assert.NotEmpty(t, dashboard.Insights)
}

func TestDashboardEndpointRejectsBadDates(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(
		httptest.NewRequest("GET", "/api/v1/dashboard?from_date=03/10/2025", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDashboardEndpointAppliesFilters(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(
		httptest.NewRequest("GET", "/api/v1/dashboard?devices=Mobile", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dashboard http.DashboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dashboard))
	require.NotNil(t, dashboard.Totals)
	assert.Equal(t, int64(30), dashboard.Totals.TotalSessions)
	require.Len(t, dashboard.Pages, 1)
	assert.Equal(t, "/docs", dashboard.Pages[0].Key)
}

func TestFiltersEndpoint(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/filters", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var filters http.FiltersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filters))
	assert.Contains(t, filters.Pages, "/home")
	assert.Contains(t, filters.Devices, records.DeviceMobile)
	assert.Contains(t, filters.Countries, "DE")
	assert.Equal(t, "2025-03-10", filters.FirstDate)
	assert.Equal(t, "2025-03-12", filters.LastDate)
}

func TestBreakdownEndpoints(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	t.Run("pages", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/pages", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var pages []segments.Assignment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pages))
		require.Len(t, pages, 4)
		assert.Equal(t, "/home", pages[0].Key)
		assert.NotEmpty(t, pages[0].Category)
	})

	t.Run("devices", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/devices", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var devices []analytics.GroupAggregate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&devices))
		require.Len(t, devices, 2)
		assert.Equal(t, "Desktop", devices[0].Key)
	})

	t.Run("countries", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/countries", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var countries []analytics.GroupAggregate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&countries))
		require.Len(t, countries, 2)

		names := []string{countries[0].Key, countries[1].Key}
		assert.Contains(t, names, "Germany")
	})

	t.Run("trends", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/trends/daily", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var daily []analytics.TrendPoint
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&daily))
		assert.Len(t, daily, 3)

		resp, err = app.Server().Test(httptest.NewRequest("GET", "/api/v1/trends/hourly", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var hourly []analytics.HourStat
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&hourly))
		assert.Len(t, hourly, 24)

		resp, err = app.Server().Test(httptest.NewRequest("GET", "/api/v1/trends/weekday", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var weekday []analytics.WeekdayStat
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&weekday))
		require.Len(t, weekday, 7)
		assert.Equal(t, "Monday", weekday[0].Weekday)
	})

	t.Run("heatmap", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/heatmap", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var heatmap analytics.Heatmap
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&heatmap))
		require.Len(t, heatmap.Days, 7)
		require.Len(t, heatmap.Sessions, 7)
		assert.Len(t, heatmap.Sessions[0], 24)
	})

	t.Run("segments", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/segments", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var byCategory map[string][]segments.Assignment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&byCategory))
		require.Len(t, byCategory, 4)

		total := 0
		for _, assignments := range byCategory {
			total += len(assignments)
		}
		assert.Equal(t, 4, total)
	})

	t.Run("insights", func(t *testing.T) {
		resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/insights", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var insights []segments.Insight
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&insights))
		require.NotEmpty(t, insights)
		for i := 1; i < len(insights); i++ {
			assert.GreaterOrEqual(t, insights[i].Priority, insights[i-1].Priority)
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(httptest.NewRequest("GET", "/api/v1/export", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".zip")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestExportEndpointSingleSheet(t *testing.T) {
	app := setupTestApp(t)
	seedTestApp(t, app)

	resp, err := app.Server().Test(
		httptest.NewRequest("GET", "/api/v1/export?sheet=Daily+Trends", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "date,sessions,conversions")

	resp, err = app.Server().Test(
		httptest.NewRequest("GET", "/api/v1/export?sheet=Nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
