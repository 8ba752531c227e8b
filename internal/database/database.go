// Package database manages the in-memory sqlite dataset store.
package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trafficlens/internal/config"
	"trafficlens/internal/records"
)

const importBatchSize = 500

// Manager owns the gorm connection to the dataset database.
type Manager struct {
	db     *gorm.DB
	dsn    string
	cfg    *config.Config
	logger *slog.Logger
}

// NewManager creates a database manager for the configured DSN.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{
		dsn:    cfg.DatabaseDSN,
		cfg:    cfg,
		logger: logger,
	}
}

// Init opens the connection and runs migrations.
func (m *Manager) Init() error {
	db, err := gorm.Open(sqlite.Open(m.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", m.dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(m.cfg.GetMaxIdleConns())

	m.db = db
	return m.migrate()
}

func (m *Manager) migrate() error {
	if err := m.db.AutoMigrate(&records.TrafficRecord{}); err != nil {
		m.logger.Error("Failed to migrate database", slog.Any("error", err))
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.logger.Debug("Database migration completed")
	return nil
}

// GetConnection returns the gorm handle.
func (m *Manager) GetConnection() *gorm.DB {
	return m.db
}

// ImportRecords replaces the dataset with the given record set inside a
// single transaction, so readers never observe a half-loaded dataset.
func (m *Manager) ImportRecords(recs []records.TrafficRecord) error {
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&records.TrafficRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear existing records: %w", err)
		}
		if len(recs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&recs, importBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Imported traffic records", slog.Int("count", len(recs)))
	return nil
}

// Count returns the number of records in the dataset.
func (m *Manager) Count() (int64, error) {
	var count int64
	if err := m.db.Model(&records.TrafficRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
