package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

// GroupAggregate holds the summed and averaged metrics for all records
// sharing a grouping key, plus the derived fields filled in by
// DeriveMetrics.
type GroupAggregate struct {
	Key         string  `json:"key"`
	Sessions    int64   `json:"sessions"`
	Users       int64   `json:"users"`
	Conversions int64   `json:"conversions"`
	BounceRate  float64 `json:"bounce_rate"`
	AvgDuration float64 `json:"avg_duration"`

	ConversionRate     float64 `json:"conversion_rate"`
	NormalizedDuration float64 `json:"normalized_duration"`
	QualityScore       float64 `json:"quality_score"`
}

// aggregateBy runs the shared group-by query over the filtered record set.
func aggregateBy(db *gorm.DB, params QueryParams, column string) ([]GroupAggregate, error) {
	var rows []GroupAggregate

	err := params.scoped(db).
		Select(column + ` AS key,
			SUM(sessions) AS sessions,
			SUM(users) AS users,
			SUM(conversions) AS conversions,
			AVG(bounce_rate) AS bounce_rate,
			AVG(avg_session_duration) AS avg_duration`).
		Group(column).
		Order("sessions DESC").
		Limit(params.limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error aggregating records by %s: %w", column, err)
	}

	return DeriveMetrics(rows), nil
}

// AggregateByPage returns derived per-page aggregates, busiest pages first.
func AggregateByPage(db *gorm.DB, params QueryParams) ([]GroupAggregate, error) {
	return aggregateBy(db, params, "page")
}

// AggregateByDevice returns derived per-device aggregates.
func AggregateByDevice(db *gorm.DB, params QueryParams) ([]GroupAggregate, error) {
	return aggregateBy(db, params, "device")
}

// AggregateByCountry returns derived per-country aggregates.
func AggregateByCountry(db *gorm.DB, params QueryParams) ([]GroupAggregate, error) {
	return aggregateBy(db, params, "country")
}
