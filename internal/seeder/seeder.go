// Package seeder generates a deterministic sample traffic dataset, used
// for demos and for producing a CSV to exercise the full import path.
package seeder

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"trafficlens/internal/records"
)

var (
	samplePages = []string{
		"/", "/pricing", "/features", "/blog", "/blog/getting-started",
		"/docs", "/signup", "/contact", "/about", "/products/widget-a",
	}
	sampleDevices = []string{
		records.DeviceDesktop, records.DeviceMobile, records.DeviceTablet,
	}
	sampleCountries = []string{"US", "DE", "GB", "FR", "BR", "IN", "JP"}
)

// Seeder produces pseudo-random traffic records from a fixed seed, so the
// same configuration always yields the same dataset.
type Seeder struct {
	Logger      *slog.Logger
	RecordCount int
	Days        int
	Seed        uint64
}

// NewSeeder creates a seeder. A zero recordCount defaults to 1000 rows
// spread over 30 days.
func NewSeeder(logger *slog.Logger, recordCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if recordCount <= 0 {
		recordCount = 1000
	}
	return &Seeder{
		Logger:      logger,
		RecordCount: recordCount,
		Days:        30,
		Seed:        42,
	}
}

// GenerateRecords builds the sample dataset ending at the given time.
func (s *Seeder) GenerateRecords(until time.Time) []records.TrafficRecord {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	start := until.AddDate(0, 0, -s.Days)

	recs := make([]records.TrafficRecord, 0, s.RecordCount)
	for i := 0; i < s.RecordCount; i++ {
		ts := start.Add(time.Duration(rng.Int64N(int64(s.Days)*24)) * time.Hour)
		// Push a share of traffic into business hours for a realistic
		// hourly profile.
		if rng.Float64() < 0.6 {
			ts = time.Date(ts.Year(), ts.Month(), ts.Day(),
				9+rng.IntN(9), 0, 0, 0, time.UTC)
		}

		page := samplePages[rng.IntN(len(samplePages))]
		sessions := int64(20 + rng.IntN(480))
		users := sessions - rng.Int64N(sessions/2+1)
		conversions := rng.Int64N(sessions/10 + 1)

		rec := records.TrafficRecord{
			Timestamp:          ts.UTC(),
			Page:               page,
			Device:             sampleDevices[rng.IntN(len(sampleDevices))],
			Country:            sampleCountries[rng.IntN(len(sampleCountries))],
			Sessions:           sessions,
			Users:              users,
			BounceRate:         0.2 + rng.Float64()*0.6,
			Conversions:        conversions,
			AvgSessionDuration: int64(15 + rng.IntN(600)),
		}
		rec.Derive()
		recs = append(recs, rec)
	}

	s.Logger.Info("Generated sample dataset",
		slog.Int("records", len(recs)), slog.Int("days", s.Days))
	return recs
}

// WriteCSV writes the sample dataset to path in the import format, with
// timestamps rendered using dateFormat.
func (s *Seeder) WriteCSV(path, dateFormat string, until time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating sample dataset %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(records.RequiredColumns); err != nil {
		return fmt.Errorf("error writing sample dataset header: %w", err)
	}

	for _, rec := range s.GenerateRecords(until) {
		row := []string{
			rec.Timestamp.Format(dateFormat),
			rec.Page,
			rec.Device,
			rec.Country,
			strconv.FormatInt(rec.Sessions, 10),
			strconv.FormatInt(rec.Users, 10),
			strconv.FormatFloat(rec.BounceRate, 'f', 4, 64),
			strconv.FormatInt(rec.Conversions, 10),
			strconv.FormatInt(rec.AvgSessionDuration, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing sample dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error flushing sample dataset: %w", err)
	}
	return nil
}
