// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Dataset settings
	DataFile   string `mapstructure:"datafile"`
	DateFormat string `mapstructure:"dateformat"`

	// Database settings. The dataset lives in an in-memory sqlite database
	// by default; a file DSN may be supplied for debugging.
	DatabaseDSN          string `mapstructure:"dbdsn"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Insight settings
	InsightTopK int `mapstructure:"insighttopk"`

	// Alert thresholds
	HighBounceRateAlert     float64 `mapstructure:"highbounceratealert"`
	LowConversionRateAlert  float64 `mapstructure:"lowconversionratealert"`
	LowSessionDurationAlert float64 `mapstructure:"lowsessiondurationalert"`
	TrafficDropPercentAlert float64 `mapstructure:"trafficdroppercentalert"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		v.SetDefault("appname", "trafficlens")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("datafile", "web_traffic_data.csv")
		v.SetDefault("dateformat", "02-01-2006 15:04")
		v.SetDefault("dbdsn", "file::memory:?cache=shared")
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("insighttopk", 3)
		v.SetDefault("highbounceratealert", 0.70)
		v.SetDefault("lowconversionratealert", 0.01)
		v.SetDefault("lowsessiondurationalert", 30)
		v.SetDefault("trafficdroppercentalert", 20)

		v.BindEnv("appname", "TRAFFICLENS_APP_NAME")
		v.BindEnv("appport", "TRAFFICLENS_APP_PORT")
		v.BindEnv("environment", "TRAFFICLENS_ENV")
		v.BindEnv("loglevel", "TRAFFICLENS_LOG_LEVEL")
		v.BindEnv("datafile", "TRAFFICLENS_DATA_FILE")
		v.BindEnv("dateformat", "TRAFFICLENS_DATE_FORMAT")
		v.BindEnv("dbdsn", "TRAFFICLENS_DB_DSN")
		v.BindEnv("dbmaxopenconns", "TRAFFICLENS_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "TRAFFICLENS_DB_MAX_IDLE_CONNS")
		v.BindEnv("logsdir", "TRAFFICLENS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "TRAFFICLENS_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "TRAFFICLENS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "TRAFFICLENS_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("insighttopk", "TRAFFICLENS_INSIGHT_TOP_K")
		v.BindEnv("highbounceratealert", "TRAFFICLENS_HIGH_BOUNCE_RATE_ALERT")
		v.BindEnv("lowconversionratealert", "TRAFFICLENS_LOW_CONVERSION_RATE_ALERT")
		v.BindEnv("lowsessiondurationalert", "TRAFFICLENS_LOW_SESSION_DURATION_ALERT")
		v.BindEnv("trafficdroppercentalert", "TRAFFICLENS_TRAFFIC_DROP_PERCENT_ALERT")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.InsightTopK <= 0 {
		return fmt.Errorf("insighttopk must be positive, got %d", c.InsightTopK)
	}

	if c.HighBounceRateAlert < 0 || c.HighBounceRateAlert > 1 {
		return fmt.Errorf("highbounceratealert must be within [0,1], got %f", c.HighBounceRateAlert)
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// The shared-cache in-memory database tolerates concurrent readers, but tests
// need a single connection for stability.
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
