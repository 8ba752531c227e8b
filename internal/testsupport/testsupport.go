// Package testsupport holds the shared fixtures for package tests.
package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trafficlens/internal/records"
)

// testDBCache caches test databases by root test name so setup helpers
// called from subtests share the database.
var (
	testDBCache   = make(map[string]*gorm.DB)
	testDBCacheMu sync.Mutex
)

// SetupTestDB creates a uniquely named in-memory database with the record
// schema migrated. cache=shared lets multiple connections within one test
// reach the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	rootName := t.Name()
	if idx := strings.Index(rootName, "/"); idx > 0 {
		rootName = rootName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitized := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitized, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&records.TrafficRecord{}); err != nil {
		t.Fatalf("testsupport: failed to migrate schema: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a quiet logger for tests.
func GetLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MakeRecord builds a record with sensible defaults; tests override fields
// through the mutators below.
func MakeRecord(ts time.Time, page string, sessions, conversions int64) records.TrafficRecord {
	rec := records.TrafficRecord{
		Timestamp:          ts,
		Page:               page,
		Device:             records.DeviceDesktop,
		Country:            "US",
		Sessions:           sessions,
		Users:              sessions,
		BounceRate:         0.5,
		Conversions:        conversions,
		AvgSessionDuration: 60,
	}
	rec.Derive()
	return rec
}

// WithDevice returns a copy of the record with the device replaced.
func WithDevice(rec records.TrafficRecord, device string) records.TrafficRecord {
	rec.Device = device
	return rec
}

// WithCountry returns a copy of the record with the country replaced.
func WithCountry(rec records.TrafficRecord, country string) records.TrafficRecord {
	rec.Country = country
	return rec
}

// InsertRecords stores the given records in the test database.
func InsertRecords(t *testing.T, db *gorm.DB, recs []records.TrafficRecord) {
	t.Helper()
	if len(recs) == 0 {
		return
	}
	if err := db.Create(&recs).Error; err != nil {
		t.Fatalf("testsupport: failed to insert records: %v", err)
	}
}

// Day returns a UTC timestamp on the given date at the given hour, for
// building fixtures tersely.
func Day(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
