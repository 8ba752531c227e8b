package segments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/analytics"
	"trafficlens/internal/segments"
)

func assignment(key string, category segments.Category, quality float64) segments.Assignment {
	return segments.Assignment{
		GroupAggregate: analytics.GroupAggregate{
			Key:          key,
			Sessions:     100,
			QualityScore: quality,
		},
		Category:          category,
		RecommendedAction: category.RecommendedAction(),
	}
}

func TestBuildInsightsPriorityOrder(t *testing.T) {
	assignments := []segments.Assignment{
		assignment("/star", segments.CategoryStarPerformer, 0.9),
		assignment("/gem", segments.CategoryHiddenGem, 0.6),
		assignment("/heavy", segments.CategoryHighTrafficLowConversion, 0.4),
		assignment("/weak", segments.CategoryNeedsAttention, 0.1),
	}

	insights := segments.BuildInsights(assignments, 3)
	require.Len(t, insights, 4)

	assert.Equal(t, "/weak", insights[0].Entity)
	assert.Equal(t, 1, insights[0].Priority)
	assert.Equal(t, "/heavy", insights[1].Entity)
	assert.Equal(t, "/gem", insights[2].Entity)
	assert.Equal(t, "/star", insights[3].Entity)
	assert.Equal(t, 4, insights[3].Priority)
}

func TestBuildInsightsTopKPerCategory(t *testing.T) {
	assignments := []segments.Assignment{
		assignment("/w1", segments.CategoryNeedsAttention, 0.10),
		assignment("/w2", segments.CategoryNeedsAttention, 0.30),
		assignment("/w3", segments.CategoryNeedsAttention, 0.20),
	}

	insights := segments.BuildInsights(assignments, 2)
	require.Len(t, insights, 2)

	// Ranked by quality score within the category.
	assert.Equal(t, "/w2", insights[0].Entity)
	assert.Equal(t, "/w3", insights[1].Entity)
}

func TestBuildInsightsFields(t *testing.T) {
	assignments := []segments.Assignment{
		{
			GroupAggregate: analytics.GroupAggregate{
				Key: "/checkout", Sessions: 400, ConversionRate: 0.02, QualityScore: 0.35,
			},
			Category:          segments.CategoryHighTrafficLowConversion,
			RecommendedAction: segments.CategoryHighTrafficLowConversion.RecommendedAction(),
		},
	}

	insights := segments.BuildInsights(assignments, 3)
	require.Len(t, insights, 1)

	in := insights[0]
	assert.Equal(t, "/checkout", in.Entity)
	assert.Equal(t, int64(400), in.Sessions)
	assert.InDelta(t, 0.02, in.ConversionRate, 1e-9)
	assert.Contains(t, in.Summary, "/checkout")
	assert.Equal(t, segments.CategoryHighTrafficLowConversion.RecommendedAction(), in.RecommendedAction)
}

func TestBuildInsightsEmptyAndZeroK(t *testing.T) {
	assert.Empty(t, segments.BuildInsights(nil, 3))
	assert.Empty(t, segments.BuildInsights([]segments.Assignment{
		assignment("/a", segments.CategoryStarPerformer, 0.5),
	}, 0))
}

func TestRecommendations(t *testing.T) {
	pages := []segments.Assignment{
		{
			GroupAggregate:    analytics.GroupAggregate{Key: "/heavy", Sessions: 900, BounceRate: 0.85},
			Category:          segments.CategoryHighTrafficLowConversion,
			RecommendedAction: segments.CategoryHighTrafficLowConversion.RecommendedAction(),
		},
		{
			GroupAggregate:    analytics.GroupAggregate{Key: "/gem", Sessions: 30, BounceRate: 0.20},
			Category:          segments.CategoryHiddenGem,
			RecommendedAction: segments.CategoryHiddenGem.RecommendedAction(),
		},
	}
	devices := []analytics.GroupAggregate{
		{Key: "Desktop", Sessions: 500, ConversionRate: 0.08},
		{Key: "Mobile", Sessions: 400, ConversionRate: 0.01},
	}
	hourly := []analytics.HourStat{
		{Hour: 3, Sessions: 10, ConversionRate: 0.01},
		{Hour: 14, Sessions: 200, ConversionRate: 0.09},
	}

	recs := segments.Recommendations(pages, devices, hourly)
	require.NotEmpty(t, recs)

	joined := ""
	for _, r := range recs {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "/heavy")
	assert.Contains(t, joined, "/gem")
	assert.Contains(t, joined, "Mobile")
	assert.Contains(t, joined, "14:00")
}

func TestRecommendationsEmptyInputs(t *testing.T) {
	assert.Empty(t, segments.Recommendations(nil, nil, nil))
}

func TestBuildAlerts(t *testing.T) {
	th := segments.Thresholds{
		HighBounceRate:     0.70,
		LowConversionRate:  0.01,
		LowSessionDuration: 30,
		TrafficDropPercent: 20,
	}

	totals := &analytics.Totals{
		RecordCount:        10,
		AvgBounceRate:      0.80,
		ConversionRate:     0.005,
		AvgSessionDuration: 12,
	}

	alerts := segments.BuildAlerts(totals, nil, th)
	require.Len(t, alerts, 3)
	for _, a := range alerts {
		assert.Equal(t, segments.SeverityWarning, a.Severity)
		assert.NotEmpty(t, a.Message)
	}
}

func TestBuildAlertsTrafficDrop(t *testing.T) {
	th := segments.Thresholds{
		HighBounceRate:     1.0,
		LowConversionRate:  0,
		LowSessionDuration: 0,
		TrafficDropPercent: 20,
	}
	totals := &analytics.Totals{
		RecordCount:        8,
		AvgBounceRate:      0.2,
		ConversionRate:     0.5,
		AvgSessionDuration: 300,
	}

	daily := []analytics.TrendPoint{
		{Sessions: 100}, {Sessions: 100}, {Sessions: 100}, {Sessions: 100},
		{Sessions: 40}, {Sessions: 40}, {Sessions: 40}, {Sessions: 40},
	}

	alerts := segments.BuildAlerts(totals, daily, th)
	require.Len(t, alerts, 1)
	assert.Equal(t, segments.SeverityCritical, alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "dropped")
}

func TestBuildAlertsQuietDataset(t *testing.T) {
	th := segments.Thresholds{
		HighBounceRate:     0.70,
		LowConversionRate:  0.01,
		LowSessionDuration: 30,
		TrafficDropPercent: 20,
	}
	totals := &analytics.Totals{
		RecordCount:        5,
		AvgBounceRate:      0.40,
		ConversionRate:     0.05,
		AvgSessionDuration: 120,
	}

	assert.Empty(t, segments.BuildAlerts(totals, nil, th))
	assert.Empty(t, segments.BuildAlerts(nil, nil, th))
	assert.Empty(t, segments.BuildAlerts(&analytics.Totals{}, nil, th))
}
