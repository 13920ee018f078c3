package cmd

import (
	"fmt"
	"strconv"
	"time"
)

// Config carries every deployment setting, loaded from .env in main.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisURL selects the shared idempotency store; empty falls back to the
	// in-memory store.
	RedisURL string

	// Supplier gateway retry base delay, e.g. "2s".
	SupplierRetryDelay string

	// Order recovery and delay detection windows.
	ReprocessCooldown string
	DelayThreshold    string

	// Health inspection thresholds: queue depths and minimum rates.
	MaxWaitingJobs        string
	MaxFailedJobs         string
	MinOnTimeDeliveryRate string
	MinSendSuccessRate    string

	// Cron schedule overrides; empty fields use the coordinator defaults.
	ScheduleTrackingSync     string
	ScheduleDelayedOrders    string
	ScheduleCleanup          string
	SchedulePerformanceCheck string
	ScheduleReprocess        string
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Duration parses a duration field, falling back when the field is empty or
// malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Int parses an integer field, falling back when the field is empty or
// malformed.
func Int(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Float parses a float field, falling back when the field is empty or
// malformed.
func Float(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
