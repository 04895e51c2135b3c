// Package config provides configuration management for the allocation engine.
// Configurations are loaded from TOML files and may be overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// Config holds the complete application configuration.
type Config struct {
	Allocation    AllocationConfig    `toml:"allocation"`
	Urgency       UrgencyConfig       `toml:"urgency"`
	Staffing      StaffingConfig      `toml:"staffing"`
	KnowledgeBase KnowledgeBaseConfig `toml:"knowledge_base"`
	Events        EventsConfig        `toml:"events"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Logging       LoggingConfig       `toml:"logging"`
}

// AllocationConfig controls plan arithmetic and advisory thresholds.
type AllocationConfig struct {
	SafetyBufferMultiplier float64 `toml:"safety_buffer_multiplier"`
	MissingStockDefault    int64   `toml:"missing_stock_default"`
	AllowGeneralFallback   bool    `toml:"allow_general_fallback"`
	StaffGapThreshold      float64 `toml:"staff_gap_threshold"`
	LowConfidenceThreshold float64 `toml:"low_confidence_threshold"`
	DefaultDepartment      string  `toml:"default_department"`
}

// UrgencyConfig is the threshold table mapping tier and lead time to urgency.
type UrgencyConfig struct {
	CriticalMaxTier     int `toml:"critical_max_tier"`
	CriticalMaxLeadDays int `toml:"critical_max_lead_days"`
	HighMaxTier         int `toml:"high_max_tier"`
}

// StaffingConfig controls department protection and the on-call pool.
type StaffingConfig struct {
	DefaultDepartmentPriority int            `toml:"default_department_priority"`
	MinRetainedPerDepartment  int64          `toml:"min_retained_per_department"`
	DefaultOnCallPool         int64          `toml:"default_on_call_pool"`
	OnCallPool                map[string]int `toml:"on_call_pool"`
	Departments               map[string]int `toml:"departments"`
}

// KnowledgeBaseConfig points at an optional YAML override of the mapping table.
type KnowledgeBaseConfig struct {
	Path string `toml:"path"`
}

// EventsBackend selects where allocation events are published.
type EventsBackend string

const (
	EventsNone   EventsBackend = "none"
	EventsMemory EventsBackend = "memory"
	EventsRedis  EventsBackend = "redis"
)

// EventsConfig contains event publishing settings.
type EventsConfig struct {
	Backend     EventsBackend `toml:"backend"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisStream string        `toml:"redis_stream"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Allocation: AllocationConfig{
			SafetyBufferMultiplier: 1.2,
			MissingStockDefault:    0,
			AllowGeneralFallback:   false,
			StaffGapThreshold:      0.25,
			LowConfidenceThreshold: 0.6,
			DefaultDepartment:      "Emergency",
		},
		Urgency: UrgencyConfig{
			CriticalMaxTier:     1,
			CriticalMaxLeadDays: 2,
			HighMaxTier:         2,
		},
		Staffing: StaffingConfig{
			DefaultDepartmentPriority: 3,
			MinRetainedPerDepartment:  1,
			DefaultOnCallPool:         5,
			OnCallPool:                map[string]int{},
			Departments: map[string]int{
				"Emergency":   1,
				"ICU":         1,
				"Surgery":     2,
				"OPD":         4,
				"Dermatology": 5,
			},
		},
		Events: EventsConfig{
			Backend:     EventsNone,
			RedisAddr:   "localhost:6379",
			RedisStream: "surgealloc:plans",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Allocation.SafetyBufferMultiplier < 1 {
		errs = append(errs, fmt.Errorf("allocation.safety_buffer_multiplier must be at least 1, got %.3f", c.Allocation.SafetyBufferMultiplier))
	}
	if c.Allocation.MissingStockDefault < 0 {
		errs = append(errs, fmt.Errorf("allocation.missing_stock_default cannot be negative"))
	}
	if c.Allocation.StaffGapThreshold < 0 {
		errs = append(errs, fmt.Errorf("allocation.staff_gap_threshold cannot be negative"))
	}
	if c.Allocation.LowConfidenceThreshold < 0 || c.Allocation.LowConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("allocation.low_confidence_threshold must be between 0 and 1"))
	}
	if c.Urgency.CriticalMaxTier < 1 || c.Urgency.HighMaxTier < c.Urgency.CriticalMaxTier {
		errs = append(errs, fmt.Errorf("urgency tiers must satisfy 1 <= critical_max_tier <= high_max_tier"))
	}
	if c.Urgency.CriticalMaxLeadDays < 0 {
		errs = append(errs, fmt.Errorf("urgency.critical_max_lead_days cannot be negative"))
	}
	if c.Staffing.MinRetainedPerDepartment < 0 {
		errs = append(errs, fmt.Errorf("staffing.min_retained_per_department cannot be negative"))
	}
	if c.Staffing.DefaultOnCallPool < 0 {
		errs = append(errs, fmt.Errorf("staffing.default_on_call_pool cannot be negative"))
	}
	for role, size := range c.Staffing.OnCallPool {
		if size < 0 {
			errs = append(errs, fmt.Errorf("staffing.on_call_pool.%s cannot be negative", role))
		}
	}

	switch c.Events.Backend {
	case EventsNone, EventsMemory:
	case EventsRedis:
		if c.Events.RedisAddr == "" || c.Events.RedisStream == "" {
			errs = append(errs, fmt.Errorf("events.redis_addr and events.redis_stream are required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.backend must be none, memory or redis, got %q", c.Events.Backend))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// SafetyBuffer returns the buffer multiplier as a decimal.
func (c AllocationConfig) SafetyBuffer() decimal.Decimal {
	return decimal.NewFromFloat(c.SafetyBufferMultiplier)
}

// DepartmentList returns the configured departments sorted by priority then name.
func (c StaffingConfig) DepartmentList() []entities.Department {
	out := make([]entities.Department, 0, len(c.Departments))
	for name, priority := range c.Departments {
		out = append(out, entities.Department{Name: name, Priority: priority})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// OnCallPoolSizes converts the on-call table to entity quantities.
func (c StaffingConfig) OnCallPoolSizes() map[string]entities.Quantity {
	out := make(map[string]entities.Quantity, len(c.OnCallPool))
	for role, size := range c.OnCallPool {
		out[role] = entities.Quantity(size)
	}
	return out
}
