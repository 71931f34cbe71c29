// Package config handles configuration loading and validation for ord-plan.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/vonpupp/ord-plan/internal/core/org"
)

// Config holds the application configuration.
type Config struct {
	// DefaultKeyword is applied to generated events whose rule did not
	// specify one.
	DefaultKeyword string `yaml:"default_keyword"`
	// EventLevel is the headline depth for generated events.
	EventLevel int `yaml:"event_level"`
	// RecognizedKeywords is the set of leading state keywords stripped
	// when reading event headlines back from a document.
	RecognizedKeywords []string `yaml:"recognized_keywords"`
	// BackupExistingFiles copies the target to a timestamped backup
	// before overwriting it.
	BackupExistingFiles bool `yaml:"backup_existing_files"`
	// MaxEventsPerRule caps expansion of a single rule.
	MaxEventsPerRule int `yaml:"max_events_per_rule"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultKeyword:     "TODO",
		EventLevel:         org.DefaultEventLevel,
		RecognizedKeywords: org.DefaultKeywords,
		MaxEventsPerRule:   10000,
	}
}

// Load reads configuration from the given path, applies ORD_PLAN_*
// environment overrides, and validates the result. A missing file is not
// an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyEnv layers environment variables over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("ORD_PLAN_DEFAULT_KEYWORD"); v != "" {
		c.DefaultKeyword = v
	}
	if v := os.Getenv("ORD_PLAN_EVENT_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.EventLevel = n
		}
	}
	if v := os.Getenv("ORD_PLAN_MAX_EVENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxEventsPerRule = n
		}
	}
	if v := os.Getenv("ORD_PLAN_BACKUP_FILES"); v != "" {
		switch v {
		case "true", "1", "yes":
			c.BackupExistingFiles = true
		case "false", "0", "no":
			c.BackupExistingFiles = false
		}
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.DefaultKeyword == "" {
		c.DefaultKeyword = def.DefaultKeyword
	}
	if c.EventLevel == 0 {
		c.EventLevel = def.EventLevel
	}
	if len(c.RecognizedKeywords) == 0 {
		c.RecognizedKeywords = def.RecognizedKeywords
	}
	if c.MaxEventsPerRule == 0 {
		c.MaxEventsPerRule = def.MaxEventsPerRule
	}
}

// Validate performs structural validation.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("event_level", c.EventLevel, atLeast(1)),
		criterio.Run("max_events_per_rule", c.MaxEventsPerRule, atLeast(1)),
		c.validateKeywords(),
	)
}

func (c *Config) validateKeywords() error {
	var errs criterio.FieldErrorsBuilder
	for i, kw := range c.RecognizedKeywords {
		if kw == "" {
			errs = errs.Append(fmt.Sprintf("recognized_keywords[%d]", i), fmt.Errorf("keyword is empty"))
		}
	}
	return errs.ToError()
}

func atLeast(min int) func(int) error {
	return func(v int) error {
		if v < min {
			return fmt.Errorf("must be at least %d", min)
		}
		return nil
	}
}
