// Package export assembles the analytics breakdowns into named sheets and
// serializes them as CSV, individually or bundled in a zip archive.
package export

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"trafficlens/internal/analytics"
	"trafficlens/internal/segments"
)

// Sheet names used in the exported report.
const (
	SheetPagePerformance = "Page Performance"
	SheetDeviceAnalysis  = "Device Analysis"
	SheetCountryAnalysis = "Country Analysis"
	SheetDailyTrends     = "Daily Trends"
	SheetHourlyPatterns  = "Hourly Patterns"
	SheetInsights        = "Insights"
)

// Sheet is one tabular section of the report.
type Sheet struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Report bundles all sheets for a filtered view.
type Report struct {
	Sheets []Sheet `json:"sheets"`
}

// BuildReport runs the full set of breakdowns for the filtered view and
// renders them as sheets. topK bounds the insights per category.
func BuildReport(db *gorm.DB, params analytics.QueryParams, topK int) (*Report, error) {
	pages, err := analytics.AggregateByPage(db, params)
	if err != nil {
		return nil, fmt.Errorf("error building page sheet: %w", err)
	}
	devices, err := analytics.AggregateByDevice(db, params)
	if err != nil {
		return nil, fmt.Errorf("error building device sheet: %w", err)
	}
	countries, err := analytics.AggregateByCountry(db, params)
	if err != nil {
		return nil, fmt.Errorf("error building country sheet: %w", err)
	}
	daily, err := analytics.GetDailyTrend(db, params)
	if err != nil {
		return nil, fmt.Errorf("error building daily trends sheet: %w", err)
	}
	hourly, err := analytics.GetHourlyProfile(db, params)
	if err != nil {
		return nil, fmt.Errorf("error building hourly patterns sheet: %w", err)
	}

	pageAssignments := segments.Classify(pages)
	insights := segments.BuildInsights(pageAssignments, topK)

	return &Report{
		Sheets: []Sheet{
			pageSheet(pageAssignments),
			groupSheet(SheetDeviceAnalysis, "device", devices),
			groupSheet(SheetCountryAnalysis, "country", countries),
			dailySheet(daily),
			hourlySheet(hourly),
			insightSheet(insights),
		},
	}, nil
}

// Sheet looks up a sheet by name; nil when absent.
func (r *Report) Sheet(name string) *Sheet {
	for i := range r.Sheets {
		if r.Sheets[i].Name == name {
			return &r.Sheets[i]
		}
	}
	return nil
}

func pageSheet(assignments []segments.Assignment) Sheet {
	sheet := Sheet{
		Name: SheetPagePerformance,
		Columns: []string{
			"page", "sessions", "users", "conversions", "bounce_rate",
			"avg_session_duration", "conversion_rate", "normalized_duration",
			"quality_score", "category", "recommended_action",
		},
		Rows: [][]string{},
	}
	for _, a := range assignments {
		sheet.Rows = append(sheet.Rows, []string{
			a.Key,
			formatInt(a.Sessions),
			formatInt(a.Users),
			formatInt(a.Conversions),
			formatFloat(a.BounceRate),
			formatFloat(a.AvgDuration),
			formatFloat(a.ConversionRate),
			formatFloat(a.NormalizedDuration),
			formatFloat(a.QualityScore),
			string(a.Category),
			a.RecommendedAction,
		})
	}
	return sheet
}

func groupSheet(name, keyColumn string, groups []analytics.GroupAggregate) Sheet {
	sheet := Sheet{
		Name: name,
		Columns: []string{
			keyColumn, "sessions", "users", "conversions", "bounce_rate",
			"avg_session_duration", "conversion_rate", "normalized_duration",
			"quality_score",
		},
		Rows: [][]string{},
	}
	for _, g := range groups {
		sheet.Rows = append(sheet.Rows, []string{
			g.Key,
			formatInt(g.Sessions),
			formatInt(g.Users),
			formatInt(g.Conversions),
			formatFloat(g.BounceRate),
			formatFloat(g.AvgDuration),
			formatFloat(g.ConversionRate),
			formatFloat(g.NormalizedDuration),
			formatFloat(g.QualityScore),
		})
	}
	return sheet
}

func dailySheet(points []analytics.TrendPoint) Sheet {
	sheet := Sheet{
		Name:    SheetDailyTrends,
		Columns: []string{"date", "sessions", "conversions", "bounce_rate", "conversion_rate"},
		Rows:    [][]string{},
	}
	for _, p := range points {
		sheet.Rows = append(sheet.Rows, []string{
			p.Date,
			formatInt(p.Sessions),
			formatInt(p.Conversions),
			formatFloat(p.BounceRate),
			formatFloat(p.ConversionRate),
		})
	}
	return sheet
}

func hourlySheet(hours []analytics.HourStat) Sheet {
	sheet := Sheet{
		Name:    SheetHourlyPatterns,
		Columns: []string{"hour", "sessions", "conversions", "bounce_rate", "conversion_rate"},
		Rows:    [][]string{},
	}
	for _, h := range hours {
		sheet.Rows = append(sheet.Rows, []string{
			strconv.Itoa(h.Hour),
			formatInt(h.Sessions),
			formatInt(h.Conversions),
			formatFloat(h.BounceRate),
			formatFloat(h.ConversionRate),
		})
	}
	return sheet
}

func insightSheet(insights []segments.Insight) Sheet {
	sheet := Sheet{
		Name: SheetInsights,
		Columns: []string{
			"entity", "category", "priority", "sessions", "conversion_rate",
			"quality_score", "summary", "recommended_action",
		},
		Rows: [][]string{},
	}
	for _, in := range insights {
		sheet.Rows = append(sheet.Rows, []string{
			in.Entity,
			string(in.Category),
			strconv.Itoa(in.Priority),
			formatInt(in.Sessions),
			formatFloat(in.ConversionRate),
			formatFloat(in.QualityScore),
			in.Summary,
			in.RecommendedAction,
		})
	}
	return sheet
}

// formatFloat renders the shortest decimal string that parses back to the
// exact same float64, so exported values survive a round trip unchanged.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
