package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

// Totals is the KPI block computed over the filtered record set.
type Totals struct {
	RecordCount        int64   `json:"record_count"`
	TotalSessions      int64   `json:"total_sessions"`
	TotalUsers         int64   `json:"total_users"`
	TotalConversions   int64   `json:"total_conversions"`
	ConversionRate     float64 `json:"conversion_rate"`
	AvgBounceRate      float64 `json:"avg_bounce_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
}

// GetTotals computes the dataset-level KPIs for the filtered record set.
// An empty set yields all zeros; the overall conversion rate is defined as
// 0 when there are no sessions.
func GetTotals(db *gorm.DB, params QueryParams) (*Totals, error) {
	var result struct {
		RecordCount        int64
		TotalSessions      int64
		TotalUsers         int64
		TotalConversions   int64
		AvgBounceRate      float64
		AvgSessionDuration float64
	}

	err := params.scoped(db).
		Select(`COUNT(*) AS record_count,
			COALESCE(SUM(sessions), 0) AS total_sessions,
			COALESCE(SUM(users), 0) AS total_users,
			COALESCE(SUM(conversions), 0) AS total_conversions,
			COALESCE(AVG(bounce_rate), 0) AS avg_bounce_rate,
			COALESCE(AVG(avg_session_duration), 0) AS avg_session_duration`).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("error calculating totals: %w", err)
	}

	return &Totals{
		RecordCount:        result.RecordCount,
		TotalSessions:      result.TotalSessions,
		TotalUsers:         result.TotalUsers,
		TotalConversions:   result.TotalConversions,
		ConversionRate:     ConversionRate(result.TotalConversions, result.TotalSessions),
		AvgBounceRate:      result.AvgBounceRate,
		AvgSessionDuration: result.AvgSessionDuration,
	}, nil
}
