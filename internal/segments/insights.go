package segments

import (
	"fmt"
	"sort"
	"strings"

	"trafficlens/internal/analytics"
)

// Insight is one actionable finding about a classified entity.
type Insight struct {
	Entity            string   `json:"entity"`
	Category          Category `json:"category"`
	Priority          int      `json:"priority"`
	Sessions          int64    `json:"sessions"`
	ConversionRate    float64  `json:"conversion_rate"`
	QualityScore      float64  `json:"quality_score"`
	Summary           string   `json:"summary"`
	RecommendedAction string   `json:"recommended_action"`
}

// BuildInsights selects up to topK entities per category, ranked by quality
// score within the category, and returns them ordered by category priority.
// Needs Attention comes first, then High Traffic / Low Conversion, Hidden
// Gem and Star Performer. A topK of zero or less yields no insights.
func BuildInsights(assignments []Assignment, topK int) []Insight {
	insights := []Insight{}
	if topK <= 0 || len(assignments) == 0 {
		return insights
	}

	byCategory := map[Category][]Assignment{}
	for _, a := range assignments {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	for _, category := range []Category{
		CategoryNeedsAttention,
		CategoryHighTrafficLowConversion,
		CategoryHiddenGem,
		CategoryStarPerformer,
	} {
		members := byCategory[category]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].QualityScore > members[j].QualityScore
		})
		if len(members) > topK {
			members = members[:topK]
		}
		for _, m := range members {
			insights = append(insights, Insight{
				Entity:            m.Key,
				Category:          category,
				Priority:          category.Priority(),
				Sessions:          m.Sessions,
				ConversionRate:    m.ConversionRate,
				QualityScore:      m.QualityScore,
				Summary:           summarize(m),
				RecommendedAction: category.RecommendedAction(),
			})
		}
	}

	return insights
}

func summarize(a Assignment) string {
	switch a.Category {
	case CategoryStarPerformer:
		return fmt.Sprintf("%s leads the view with quality score %.2f (%d sessions, %.1f%% conversion rate)",
			a.Key, a.QualityScore, a.Sessions, a.ConversionRate*100)
	case CategoryHighTrafficLowConversion:
		return fmt.Sprintf("%s draws %d sessions but converts at only %.1f%%",
			a.Key, a.Sessions, a.ConversionRate*100)
	case CategoryHiddenGem:
		return fmt.Sprintf("%s converts at %.1f%% on just %d sessions",
			a.Key, a.ConversionRate*100, a.Sessions)
	default:
		return fmt.Sprintf("%s trails the view on both traffic (%d sessions) and conversion (%.1f%%)",
			a.Key, a.Sessions, a.ConversionRate*100)
	}
}

// Recommendations turns the classified pages plus device and hourly
// breakdowns into short optimization suggestions.
func Recommendations(pages []Assignment, devices []analytics.GroupAggregate, hourly []analytics.HourStat) []string {
	recs := []string{}

	var highTraffic, hiddenGems []string
	for _, p := range pages {
		switch p.Category {
		case CategoryHighTrafficLowConversion:
			if len(highTraffic) < 3 {
				highTraffic = append(highTraffic, p.Key)
			}
		case CategoryHiddenGem:
			if len(hiddenGems) < 3 {
				hiddenGems = append(hiddenGems, p.Key)
			}
		}
	}
	if len(highTraffic) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Optimize conversion funnels on high-traffic pages: %s",
			strings.Join(highTraffic, ", ")))
	}
	if len(hiddenGems) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Drive more traffic to pages that already convert well: %s",
			strings.Join(hiddenGems, ", ")))
	}

	if worst := worstBouncePage(pages); worst != nil {
		recs = append(recs, fmt.Sprintf(
			"Reduce the %.0f%% bounce rate on %s with faster loads and clearer content",
			worst.BounceRate*100, worst.Key))
	}

	if worst := worstConvertingDevice(devices); worst != nil {
		recs = append(recs, fmt.Sprintf(
			"Review the %s experience; it converts at only %.1f%%",
			worst.Key, worst.ConversionRate*100))
	}

	if best := peakConversionHour(hourly); best != nil {
		recs = append(recs, fmt.Sprintf(
			"Schedule campaigns around %02d:00, the hour with the best conversion rate (%.1f%%)",
			best.Hour, best.ConversionRate*100))
	}

	return recs
}

func worstBouncePage(pages []Assignment) *Assignment {
	var worst *Assignment
	for i := range pages {
		if worst == nil || pages[i].BounceRate > worst.BounceRate {
			worst = &pages[i]
		}
	}
	return worst
}

func worstConvertingDevice(devices []analytics.GroupAggregate) *analytics.GroupAggregate {
	var worst *analytics.GroupAggregate
	for i := range devices {
		if devices[i].Sessions == 0 {
			continue
		}
		if worst == nil || devices[i].ConversionRate < worst.ConversionRate {
			worst = &devices[i]
		}
	}
	return worst
}

func peakConversionHour(hourly []analytics.HourStat) *analytics.HourStat {
	var best *analytics.HourStat
	for i := range hourly {
		if hourly[i].Sessions == 0 {
			continue
		}
		if best == nil || hourly[i].ConversionRate > best.ConversionRate {
			best = &hourly[i]
		}
	}
	return best
}

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert flags a dataset-level metric that crossed a configured threshold.
type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Thresholds carries the alert limits; callers fill it from configuration.
type Thresholds struct {
	HighBounceRate     float64
	LowConversionRate  float64
	LowSessionDuration float64
	TrafficDropPercent float64
}

// BuildAlerts checks the filtered view's totals and daily trend against the
// thresholds. The traffic drop check compares the mean daily sessions of
// the second half of the period against the first half.
func BuildAlerts(totals *analytics.Totals, daily []analytics.TrendPoint, th Thresholds) []Alert {
	alerts := []Alert{}
	if totals == nil || totals.RecordCount == 0 {
		return alerts
	}

	if totals.AvgBounceRate > th.HighBounceRate {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Average bounce rate %.0f%% exceeds the %.0f%% threshold",
				totals.AvgBounceRate*100, th.HighBounceRate*100),
		})
	}
	if totals.ConversionRate < th.LowConversionRate {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Overall conversion rate %.2f%% is below the %.2f%% threshold",
				totals.ConversionRate*100, th.LowConversionRate*100),
		})
	}
	if totals.AvgSessionDuration < th.LowSessionDuration {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Average session duration %.0fs is below the %.0fs threshold",
				totals.AvgSessionDuration, th.LowSessionDuration),
		})
	}

	if drop := trafficDropPercent(daily); drop > th.TrafficDropPercent {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Message: fmt.Sprintf("Daily sessions dropped %.0f%% in the second half of the period",
				drop),
		})
	}

	return alerts
}

// trafficDropPercent returns the percentage decline of mean daily sessions
// between the first and second half of the series, or 0 when there is no
// decline or not enough data.
func trafficDropPercent(daily []analytics.TrendPoint) float64 {
	if len(daily) < 4 {
		return 0
	}

	mid := len(daily) / 2
	first := meanSessions(daily[:mid])
	second := meanSessions(daily[mid:])
	if first <= 0 || second >= first {
		return 0
	}
	return (first - second) / first * 100
}

func meanSessions(points []analytics.TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum int64
	for _, p := range points {
		sum += p.Sessions
	}
	return float64(sum) / float64(len(points))
}
