package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"trafficlens/internal/records"
)

// FilterOptions lists the distinct values available for each filter
// dimension plus the dataset's date bounds. The presentation layer uses it
// to populate filter controls.
type FilterOptions struct {
	Pages     []string  `json:"pages"`
	Devices   []string  `json:"devices"`
	Countries []string  `json:"countries"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}

// GetFilterOptions inspects the whole dataset (unfiltered) for the
// available filter values.
func GetFilterOptions(db *gorm.DB) (*FilterOptions, error) {
	opts := &FilterOptions{}

	for _, dim := range []struct {
		column string
		dest   *[]string
	}{
		{"page", &opts.Pages},
		{"device", &opts.Devices},
		{"country", &opts.Countries},
	} {
		err := db.Model(&records.TrafficRecord{}).
			Distinct(dim.column).
			Order(dim.column + " ASC").
			Pluck(dim.column, dim.dest).Error
		if err != nil {
			return nil, fmt.Errorf("error fetching distinct %s values: %w", dim.column, err)
		}
	}

	var bounds struct {
		First *time.Time
		Last  *time.Time
	}
	err := db.Model(&records.TrafficRecord{}).
		Select("MIN(timestamp) AS first, MAX(timestamp) AS last").
		Scan(&bounds).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching dataset date bounds: %w", err)
	}
	if bounds.First != nil {
		opts.FirstDate = bounds.First.UTC()
	}
	if bounds.Last != nil {
		opts.LastDate = bounds.Last.UTC()
	}

	return opts, nil
}
