// Package timeframe handles date ranges and time bucketing for analytics
// queries. All times are UTC; the input data carries no timezone.
package timeframe

import (
	"fmt"
	"time"
)

// DateStat is one bucketed time-series point.
type DateStat struct {
	Date  string
	Count int64
}

// BucketSize determines the granularity of a time series.
type BucketSize string

const (
	BucketSizeHour  BucketSize = "hour"
	BucketSizeDay   BucketSize = "day"
	BucketSizeWeek  BucketSize = "week"
	BucketSizeMonth BucketSize = "month"
)

// TimeFrame represents a period between two points in time.
type TimeFrame struct {
	From       time.Time
	To         time.Time
	BucketSize BucketSize
}

// NewTimeFrame builds a validated time frame with an automatically chosen
// bucket size.
func NewTimeFrame(from, to time.Time) (*TimeFrame, error) {
	if from.After(to) {
		return nil, fmt.Errorf("from date %s is after to date %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return &TimeFrame{
		From:       from.UTC(),
		To:         to.UTC(),
		BucketSize: appropriateBucket(from, to),
	}, nil
}

func appropriateBucket(from, to time.Time) BucketSize {
	days := to.Sub(from).Hours() / 24

	switch {
	case days >= 120:
		return BucketSizeMonth
	case days >= 60:
		return BucketSizeWeek
	case days >= 2:
		return BucketSizeDay
	default:
		return BucketSizeHour
	}
}

// Duration returns the length of the time frame.
func (tf *TimeFrame) Duration() time.Duration {
	return tf.To.Sub(tf.From)
}

// GroupExpression returns the sqlite expression that buckets the records
// table's timestamp column for this frame's bucket size.
func (tf *TimeFrame) GroupExpression() (string, error) {
	switch tf.BucketSize {
	case BucketSizeHour:
		return "strftime('%Y-%m-%d %H', timestamp)", nil
	case BucketSizeDay:
		return "strftime('%Y-%m-%d', timestamp)", nil
	case BucketSizeWeek:
		// Monday-based week start
		return "date(timestamp, 'start of day', '-' || ((strftime('%w', timestamp) + 6) % 7) || ' days')", nil
	case BucketSizeMonth:
		return "strftime('%Y-%m', timestamp)", nil
	default:
		return "", fmt.Errorf("unsupported bucket size: %s", tf.BucketSize)
	}
}

// bucketKey formats a time into the key produced by GroupExpression.
func (tf *TimeFrame) bucketKey(t time.Time) string {
	switch tf.BucketSize {
	case BucketSizeHour:
		return t.Format("2006-01-02 15")
	case BucketSizeMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// BucketStarts enumerates the bucket start times covering the frame.
// Capped at 1000 points to bound response size on degenerate ranges.
func (tf *TimeFrame) BucketStarts() []time.Time {
	const maxPoints = 1000

	var starts []time.Time
	current := truncateToBucket(tf.From, tf.BucketSize)

	for len(starts) < maxPoints && !current.After(tf.To) {
		starts = append(starts, current)
		switch tf.BucketSize {
		case BucketSizeHour:
			current = current.Add(time.Hour)
		case BucketSizeDay:
			current = current.AddDate(0, 0, 1)
		case BucketSizeWeek:
			current = current.AddDate(0, 0, 7)
		case BucketSizeMonth:
			current = current.AddDate(0, 1, 0)
		}
	}

	return starts
}

// BuildSeriesPoints aligns grouped query results onto the full bucket grid,
// zero-filling buckets with no data. Dates are returned in RFC 3339.
func (tf *TimeFrame) BuildSeriesPoints(grouped []DateStat) []DateStat {
	byKey := make(map[string]int64, len(grouped))
	for _, g := range grouped {
		byKey[g.Date] = g.Count
	}

	starts := tf.BucketStarts()
	points := make([]DateStat, len(starts))
	for i, start := range starts {
		points[i] = DateStat{
			Date:  start.Format(time.RFC3339),
			Count: byKey[tf.bucketKey(start)],
		}
	}
	return points
}

// CalculateTrend fits a least-squares line through the series and returns
// its slope in counts per bucket.
func (tf *TimeFrame) CalculateTrend(points []DateStat) float64 {
	if len(points) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(points))

	for i, point := range points {
		x := float64(i)
		y := float64(point.Count)

		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func truncateToBucket(t time.Time, bucket BucketSize) time.Time {
	utc := t.UTC()
	year, month, day := utc.Year(), utc.Month(), utc.Day()

	switch bucket {
	case BucketSizeMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case BucketSizeWeek:
		weekday := int(utc.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		return time.Date(year, month, day-(weekday-1), 0, 0, 0, 0, time.UTC)
	case BucketSizeDay:
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	case BucketSizeHour:
		return time.Date(year, month, day, utc.Hour(), 0, 0, 0, time.UTC)
	default:
		return utc
	}
}
