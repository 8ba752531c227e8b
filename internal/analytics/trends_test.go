package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/analytics"
	"trafficlens/internal/records"
	"trafficlens/internal/testsupport"
)

func TestGetDailyTrend(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 12, 9), "/home", 50, 5),
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 9), "/home", 100, 10),
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 15), "/pricing", 20, 2),
	})

	params := fullRangeParams(t,
		testsupport.Day(2025, time.March, 9, 0),
		testsupport.Day(2025, time.March, 13, 0))

	points, err := analytics.GetDailyTrend(db, params)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// Chronological order, only days with data.
	assert.Equal(t, "2025-03-10", points[0].Date)
	assert.Equal(t, int64(120), points[0].Sessions)
	assert.InDelta(t, 0.1, points[0].ConversionRate, 1e-9)
	assert.Equal(t, "2025-03-12", points[1].Date)
}

func TestGetHourlyProfileZeroFills(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 9), "/home", 80, 8),
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 11, 9), "/home", 20, 2),
	})

	params := fullRangeParams(t,
		testsupport.Day(2025, time.March, 9, 0),
		testsupport.Day(2025, time.March, 12, 0))

	profile, err := analytics.GetHourlyProfile(db, params)
	require.NoError(t, err)
	require.Len(t, profile, 24)

	assert.Equal(t, int64(100), profile[9].Sessions)
	assert.InDelta(t, 0.1, profile[9].ConversionRate, 1e-9)

	for h, stat := range profile {
		assert.Equal(t, h, stat.Hour)
		if h != 9 {
			assert.Zero(t, stat.Sessions)
		}
	}
}

func TestGetWeekdayProfileMondayFirst(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	// 2025-03-10 is a Monday, 2025-03-16 a Sunday.
	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 9), "/home", 70, 7),
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 16, 9), "/home", 30, 3),
	})

	params := fullRangeParams(t,
		testsupport.Day(2025, time.March, 9, 0),
		testsupport.Day(2025, time.March, 17, 0))

	profile, err := analytics.GetWeekdayProfile(db, params)
	require.NoError(t, err)
	require.Len(t, profile, 7)

	assert.Equal(t, "Monday", profile[0].Weekday)
	assert.Equal(t, int64(70), profile[0].Sessions)
	assert.Equal(t, "Sunday", profile[6].Weekday)
	assert.Equal(t, int64(30), profile[6].Sessions)
	assert.Zero(t, profile[2].Sessions)
}

func TestGetHeatmapDimensions(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 14), "/home", 42, 4),
	})

	params := fullRangeParams(t,
		testsupport.Day(2025, time.March, 9, 0),
		testsupport.Day(2025, time.March, 11, 0))

	heatmap, err := analytics.GetHeatmap(db, params)
	require.NoError(t, err)
	require.Len(t, heatmap.Days, 7)
	require.Len(t, heatmap.Sessions, 7)
	for _, row := range heatmap.Sessions {
		require.Len(t, row, 24)
	}

	// Monday 14:00.
	assert.Equal(t, int64(42), heatmap.Sessions[0][14])
	assert.Zero(t, heatmap.Sessions[0][13])
}

func TestGetSessionSeriesZeroFills(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 10, 9), "/home", 100, 10),
		testsupport.MakeRecord(testsupport.Day(2025, time.March, 12, 9), "/home", 60, 6),
	})

	params := fullRangeParams(t,
		testsupport.Day(2025, time.March, 10, 0),
		testsupport.Day(2025, time.March, 13, 0))

	series, err := analytics.GetSessionSeries(db, params)
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, int64(100), series[0].Count)
	assert.Zero(t, series[1].Count)
	assert.Equal(t, int64(60), series[2].Count)
	assert.Zero(t, series[3].Count)
}

func TestGetFilterOptions(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	first := testsupport.Day(2025, time.March, 10, 9)
	last := testsupport.Day(2025, time.March, 12, 18)
	testsupport.InsertRecords(t, db, []records.TrafficRecord{
		testsupport.WithCountry(testsupport.MakeRecord(first, "/home", 10, 1), "US"),
		testsupport.WithCountry(testsupport.WithDevice(testsupport.MakeRecord(last, "/pricing", 10, 1), records.DeviceMobile), "DE"),
	})

	opts, err := analytics.GetFilterOptions(db)
	require.NoError(t, err)

	assert.Equal(t, []string{"/home", "/pricing"}, opts.Pages)
	assert.Equal(t, []string{records.DeviceDesktop, records.DeviceMobile}, opts.Devices)
	assert.Equal(t, []string{"DE", "US"}, opts.Countries)
	assert.True(t, opts.FirstDate.Equal(first))
	assert.True(t, opts.LastDate.Equal(last))
}
