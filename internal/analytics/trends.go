package analytics

import (
	"fmt"

	"gorm.io/gorm"

	"trafficlens/internal/records"
	"trafficlens/internal/timeframe"
)

// TrendPoint is one row of a time-based breakdown.
type TrendPoint struct {
	Date           string  `json:"date"`
	Sessions       int64   `json:"sessions"`
	Conversions    int64   `json:"conversions"`
	BounceRate     float64 `json:"bounce_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// HourStat is the aggregate for one hour of the day (0-23).
type HourStat struct {
	Hour           int     `json:"hour"`
	Sessions       int64   `json:"sessions"`
	Conversions    int64   `json:"conversions"`
	BounceRate     float64 `json:"bounce_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// WeekdayStat is the aggregate for one day of the week, Monday first.
type WeekdayStat struct {
	Weekday        string  `json:"weekday"`
	Sessions       int64   `json:"sessions"`
	Conversions    int64   `json:"conversions"`
	BounceRate     float64 `json:"bounce_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Heatmap holds sessions bucketed by day of week and hour of day.
type Heatmap struct {
	Days     []string  `json:"days"`
	Sessions [][]int64 `json:"sessions"`
}

// GetDailyTrend returns per-day sessions, conversions and rates for days
// that have data, in chronological order.
func GetDailyTrend(db *gorm.DB, params QueryParams) ([]TrendPoint, error) {
	var rows []struct {
		Date        string
		Sessions    int64
		Conversions int64
		BounceRate  float64
	}

	err := params.scoped(db).
		Select(`day AS date,
			SUM(sessions) AS sessions,
			SUM(conversions) AS conversions,
			AVG(bounce_rate) AS bounce_rate`).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching daily trend: %w", err)
	}

	points := make([]TrendPoint, len(rows))
	for i, r := range rows {
		points[i] = TrendPoint{
			Date:           r.Date,
			Sessions:       r.Sessions,
			Conversions:    r.Conversions,
			BounceRate:     r.BounceRate,
			ConversionRate: ConversionRate(r.Conversions, r.Sessions),
		}
	}
	return points, nil
}

// GetSessionSeries returns the zero-filled sessions time series bucketed by
// the frame's bucket size, for charting.
func GetSessionSeries(db *gorm.DB, params QueryParams) ([]timeframe.DateStat, error) {
	if params.TimeFrame == nil {
		return []timeframe.DateStat{}, nil
	}

	expr, err := params.TimeFrame.GroupExpression()
	if err != nil {
		return nil, err
	}

	var grouped []timeframe.DateStat
	err = params.scoped(db).
		Select(expr + " AS date, SUM(sessions) AS count").
		Group(expr).
		Order("date ASC").
		Scan(&grouped).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching session series: %w", err)
	}

	return params.TimeFrame.BuildSeriesPoints(grouped), nil
}

// GetHourlyProfile returns aggregates for all 24 hours of the day,
// zero-filled for hours with no traffic.
func GetHourlyProfile(db *gorm.DB, params QueryParams) ([]HourStat, error) {
	var rows []struct {
		Hour        int
		Sessions    int64
		Conversions int64
		BounceRate  float64
	}

	err := params.scoped(db).
		Select(`hour,
			SUM(sessions) AS sessions,
			SUM(conversions) AS conversions,
			AVG(bounce_rate) AS bounce_rate`).
		Group("hour").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching hourly profile: %w", err)
	}

	profile := make([]HourStat, 24)
	for h := range profile {
		profile[h].Hour = h
	}
	for _, r := range rows {
		if r.Hour < 0 || r.Hour > 23 {
			continue
		}
		profile[r.Hour] = HourStat{
			Hour:           r.Hour,
			Sessions:       r.Sessions,
			Conversions:    r.Conversions,
			BounceRate:     r.BounceRate,
			ConversionRate: ConversionRate(r.Conversions, r.Sessions),
		}
	}
	return profile, nil
}

// GetWeekdayProfile returns aggregates for the seven days of the week in
// Monday-first order, zero-filled for days with no traffic.
func GetWeekdayProfile(db *gorm.DB, params QueryParams) ([]WeekdayStat, error) {
	var rows []struct {
		Weekday     int
		Sessions    int64
		Conversions int64
		BounceRate  float64
	}

	err := params.scoped(db).
		Select(`weekday,
			SUM(sessions) AS sessions,
			SUM(conversions) AS conversions,
			AVG(bounce_rate) AS bounce_rate`).
		Group("weekday").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching weekday profile: %w", err)
	}

	profile := make([]WeekdayStat, 7)
	for d := range profile {
		profile[d].Weekday = records.WeekdayLabels[d]
	}
	for _, r := range rows {
		if r.Weekday < 0 || r.Weekday > 6 {
			continue
		}
		profile[r.Weekday] = WeekdayStat{
			Weekday:        records.WeekdayLabels[r.Weekday],
			Sessions:       r.Sessions,
			Conversions:    r.Conversions,
			BounceRate:     r.BounceRate,
			ConversionRate: ConversionRate(r.Conversions, r.Sessions),
		}
	}
	return profile, nil
}

// GetHeatmap returns sessions bucketed by day of week and hour of day.
func GetHeatmap(db *gorm.DB, params QueryParams) (*Heatmap, error) {
	var rows []struct {
		Weekday  int
		Hour     int
		Sessions int64
	}

	err := params.scoped(db).
		Select("weekday, hour, SUM(sessions) AS sessions").
		Group("weekday, hour").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching heatmap: %w", err)
	}

	heatmap := &Heatmap{
		Days:     records.WeekdayLabels[:],
		Sessions: make([][]int64, 7),
	}
	for d := range heatmap.Sessions {
		heatmap.Sessions[d] = make([]int64, 24)
	}
	for _, r := range rows {
		if r.Weekday < 0 || r.Weekday > 6 || r.Hour < 0 || r.Hour > 23 {
			continue
		}
		heatmap.Sessions[r.Weekday][r.Hour] = r.Sessions
	}
	return heatmap, nil
}
