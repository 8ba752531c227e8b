// Package records defines the traffic record schema and the CSV load boundary.
package records

import (
	"strings"
	"time"
)

// Device categories recognized in the device column. Anything else is
// collapsed into DeviceOther.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceOther   = "Other"
)

// WeekdayLabels maps the stored weekday index (0 = Monday) to its display
// name. Monday-first ordering matches the reporting convention.
var WeekdayLabels = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// TrafficRecord is one page-view session bucket row from the input file,
// with the derived time columns used for grouping.
type TrafficRecord struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp          time.Time `gorm:"index;not null"`
	Page               string    `gorm:"index;not null"`
	Device             string    `gorm:"index;not null"`
	Country            string    `gorm:"index;not null"`
	Sessions           int64     `gorm:"not null"`
	Users              int64     `gorm:"not null"`
	BounceRate         float64   `gorm:"not null"`
	Conversions        int64     `gorm:"not null"`
	AvgSessionDuration int64     `gorm:"not null"`

	// Derived time columns, populated by Derive.
	Day     string `gorm:"index;size:10;not null"`
	Hour    int    `gorm:"not null"`
	Weekday int    `gorm:"not null"`
	Week    int    `gorm:"not null"`
}

// Derive fills the derived time columns from the timestamp.
func (r *TrafficRecord) Derive() {
	r.Day = r.Timestamp.Format("2006-01-02")
	r.Hour = r.Timestamp.Hour()
	r.Weekday = mondayFirstWeekday(r.Timestamp.Weekday())
	_, r.Week = r.Timestamp.ISOWeek()
}

// WeekdayLabel returns the display name for the record's weekday.
func (r *TrafficRecord) WeekdayLabel() string {
	if r.Weekday < 0 || r.Weekday > 6 {
		return ""
	}
	return WeekdayLabels[r.Weekday]
}

// NormalizeDevice canonicalizes a device value into one of the four
// recognized categories.
func NormalizeDevice(raw string) string {
	switch {
	case strings.EqualFold(raw, DeviceDesktop):
		return DeviceDesktop
	case strings.EqualFold(raw, DeviceMobile):
		return DeviceMobile
	case strings.EqualFold(raw, DeviceTablet):
		return DeviceTablet
	default:
		return DeviceOther
	}
}

func mondayFirstWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
