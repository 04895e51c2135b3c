package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SURGEALLOC_"

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path yields the defaults
// with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("reading file: %w", err)}
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("parsing TOML: %w", err)}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, &LoadError{Path: describe(path), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: describe(path), Err: fmt.Errorf("validating config: %w", err)}
	}

	return cfg, nil
}

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("# Surge allocation engine configuration\n\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}

// applyEnv overlays SURGEALLOC_* variables onto cfg
func applyEnv(cfg *Config) error {
	cfg.Logging.Level = getEnv(EnvPrefix+"LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv(EnvPrefix+"LOG_FORMAT", cfg.Logging.Format)
	cfg.Events.Backend = EventsBackend(getEnv(EnvPrefix+"EVENTS_BACKEND", string(cfg.Events.Backend)))
	cfg.Events.RedisAddr = getEnv(EnvPrefix+"REDIS_ADDR", cfg.Events.RedisAddr)
	cfg.Events.RedisStream = getEnv(EnvPrefix+"REDIS_STREAM", cfg.Events.RedisStream)
	cfg.KnowledgeBase.Path = getEnv(EnvPrefix+"KNOWLEDGE_BASE", cfg.KnowledgeBase.Path)
	cfg.Metrics.TextfilePath = getEnv(EnvPrefix+"METRICS_TEXTFILE", cfg.Metrics.TextfilePath)
	cfg.Allocation.DefaultDepartment = getEnv(EnvPrefix+"DEFAULT_DEPARTMENT", cfg.Allocation.DefaultDepartment)

	if v := os.Getenv(EnvPrefix + "SAFETY_BUFFER"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sSAFETY_BUFFER: %w", EnvPrefix, err)
		}
		cfg.Allocation.SafetyBufferMultiplier = f
	}
	if v := os.Getenv(EnvPrefix + "ALLOW_GENERAL_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sALLOW_GENERAL_FALLBACK: %w", EnvPrefix, err)
		}
		cfg.Allocation.AllowGeneralFallback = b
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
