package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trafficlens/internal/analytics"
	"trafficlens/internal/pkg/async"
	"trafficlens/internal/segments"
	"trafficlens/internal/timeframe"
)

// DashboardResponse is the full payload behind the dashboard view.
type DashboardResponse struct {
	Totals          *analytics.Totals          `json:"totals"`
	Pages           []segments.Assignment      `json:"pages"`
	Devices         []analytics.GroupAggregate `json:"devices"`
	Countries       []analytics.GroupAggregate `json:"countries"`
	DailyTrend      []analytics.TrendPoint     `json:"daily_trend"`
	SessionSeries   []timeframe.DateStat       `json:"session_series"`
	HourlyProfile   []analytics.HourStat       `json:"hourly_profile"`
	WeekdayProfile  []analytics.WeekdayStat    `json:"weekday_profile"`
	Heatmap         *analytics.Heatmap         `json:"heatmap"`
	Insights        []segments.Insight         `json:"insights"`
	Recommendations []string                   `json:"recommendations"`
	Alerts          []segments.Alert           `json:"alerts"`
	BucketSize      string                     `json:"bucket_size"`
}

// Dashboard runs every breakdown for the filtered view concurrently and
// assembles the full dashboard payload.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	params, err := h.queryParams(c)
	if err != nil {
		h.logger.Warn("Rejecting dashboard request", slog.Any("error", err))
		return badRequest(c, err)
	}

	db := h.db
	tasks := []async.Task{
		{
			Name: "totals",
			Execute: func() (any, error) {
				return analytics.GetTotals(db, params)
			},
		},
		{
			Name: "pages",
			Execute: func() (any, error) {
				return analytics.AggregateByPage(db, params)
			},
		},
		{
			Name: "devices",
			Execute: func() (any, error) {
				return analytics.AggregateByDevice(db, params)
			},
		},
		{
			Name: "countries",
			Execute: func() (any, error) {
				return analytics.AggregateByCountry(db, params)
			},
		},
		{
			Name: "dailyTrend",
			Execute: func() (any, error) {
				return analytics.GetDailyTrend(db, params)
			},
		},
		{
			Name: "sessionSeries",
			Execute: func() (any, error) {
				return analytics.GetSessionSeries(db, params)
			},
		},
		{
			Name: "hourlyProfile",
			Execute: func() (any, error) {
				return analytics.GetHourlyProfile(db, params)
			},
		},
		{
			Name: "weekdayProfile",
			Execute: func() (any, error) {
				return analytics.GetWeekdayProfile(db, params)
			},
		},
		{
			Name: "heatmap",
			Execute: func() (any, error) {
				return analytics.GetHeatmap(db, params)
			},
		},
	}

	pool := async.NewPool(4)
	results := pool.Execute(c.UserContext(), tasks)

	for name, result := range results {
		if result.Err != nil {
			h.logger.Error("Error building dashboard section",
				slog.String("section", name), slog.Any("error", result.Err))
			return internalError(c)
		}
	}

	resp := &DashboardResponse{
		Pages:           []segments.Assignment{},
		Devices:         []analytics.GroupAggregate{},
		Countries:       []analytics.GroupAggregate{},
		DailyTrend:      []analytics.TrendPoint{},
		SessionSeries:   []timeframe.DateStat{},
		Insights:        []segments.Insight{},
		Recommendations: []string{},
		Alerts:          []segments.Alert{},
		BucketSize:      string(params.TimeFrame.BucketSize),
	}

	if totals, ok := results["totals"].Data.(*analytics.Totals); ok {
		resp.Totals = totals
	}
	if pages, ok := results["pages"].Data.([]analytics.GroupAggregate); ok {
		resp.Pages = segments.Classify(pages)
	}
	if devices, ok := results["devices"].Data.([]analytics.GroupAggregate); ok {
		resp.Devices = displayDeviceNames(devices)
	}
	if countries, ok := results["countries"].Data.([]analytics.GroupAggregate); ok {
		resp.Countries = displayCountryNames(countries)
	}
	if daily, ok := results["dailyTrend"].Data.([]analytics.TrendPoint); ok {
		resp.DailyTrend = daily
	}
	if series, ok := results["sessionSeries"].Data.([]timeframe.DateStat); ok {
		resp.SessionSeries = series
	}
	if hourly, ok := results["hourlyProfile"].Data.([]analytics.HourStat); ok {
		resp.HourlyProfile = hourly
	}
	if weekday, ok := results["weekdayProfile"].Data.([]analytics.WeekdayStat); ok {
		resp.WeekdayProfile = weekday
	}
	if heatmap, ok := results["heatmap"].Data.(*analytics.Heatmap); ok {
		resp.Heatmap = heatmap
	}

	resp.Insights = segments.BuildInsights(resp.Pages, h.cfg.InsightTopK)
	resp.Recommendations = segments.Recommendations(resp.Pages, resp.Devices, resp.HourlyProfile)
	resp.Alerts = segments.BuildAlerts(resp.Totals, resp.DailyTrend, segments.Thresholds{
		HighBounceRate:     h.cfg.HighBounceRateAlert,
		LowConversionRate:  h.cfg.LowConversionRateAlert,
		LowSessionDuration: h.cfg.LowSessionDurationAlert,
		TrafficDropPercent: h.cfg.TrafficDropPercentAlert,
	})

	return c.JSON(resp)
}

// displayCountryNames resolves ISO country codes to their common names,
// falling back to the uppercased raw value for codes gountries does not
// know. Full names in the data pass through unchanged.
func displayCountryNames(items []analytics.GroupAggregate) []analytics.GroupAggregate {
	if len(items) == 0 {
		return []analytics.GroupAggregate{}
	}

	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	result := make([]analytics.GroupAggregate, len(items))
	for i, item := range items {
		if len(item.Key) == 2 || len(item.Key) == 3 {
			if country, err := countries.FindCountryByAlpha(item.Key); err == nil {
				item.Key = country.Name.Common
			} else {
				item.Key = caser.String(item.Key)
			}
		}
		result[i] = item
	}
	return result
}

func displayDeviceNames(items []analytics.GroupAggregate) []analytics.GroupAggregate {
	if len(items) == 0 {
		return []analytics.GroupAggregate{}
	}

	caser := cases.Title(language.AmericanEnglish)

	result := make([]analytics.GroupAggregate, len(items))
	for i, item := range items {
		item.Key = caser.String(item.Key)
		result[i] = item
	}
	return result
}
