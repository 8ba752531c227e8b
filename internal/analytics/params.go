// Package analytics computes group aggregates and derived metrics over the
// traffic dataset. All queries are scoped by an already-resolved filter; the
// derivation functions are pure and never touch the database.
package analytics

import (
	"gorm.io/gorm"

	"trafficlens/internal/records"
	"trafficlens/internal/timeframe"
)

// DefaultLimit caps ranked result sets unless the caller overrides it.
const DefaultLimit = 50

// QueryParams carries the filter every analytics query is scoped by: the
// date range plus optional page/device/country subsets.
type QueryParams struct {
	TimeFrame *timeframe.TimeFrame
	Pages     []string
	Devices   []string
	Countries []string
	Limit     int
}

// NewQueryParams creates query params for a time frame with the default
// result limit and no dimension filters.
func NewQueryParams(tf *timeframe.TimeFrame) QueryParams {
	return QueryParams{
		TimeFrame: tf,
		Limit:     DefaultLimit,
	}
}

// scoped returns a records query with all filter clauses applied.
func (p QueryParams) scoped(db *gorm.DB) *gorm.DB {
	q := db.Model(&records.TrafficRecord{})

	if p.TimeFrame != nil {
		q = q.Where("timestamp BETWEEN ? AND ?", p.TimeFrame.From.UTC(), p.TimeFrame.To.UTC())
	}
	if len(p.Pages) > 0 {
		q = q.Where("page IN ?", p.Pages)
	}
	if len(p.Devices) > 0 {
		q = q.Where("device IN ?", p.Devices)
	}
	if len(p.Countries) > 0 {
		q = q.Where("country IN ?", p.Countries)
	}

	return q
}

func (p QueryParams) limit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return DefaultLimit
}
