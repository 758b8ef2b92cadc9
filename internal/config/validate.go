package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTuning(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTuning() error {
	if c.Tuning.MinPrefixFactor <= 0 || c.Tuning.MinPrefixFactor > 1 {
		return errors.New("tuning.min_prefix_factor must be in (0, 1]")
	}
	if c.Tuning.TruncationStepDivisor <= 0 {
		return errors.New("tuning.truncation_step_divisor must be positive")
	}
	if c.Tuning.AverageNameLength <= 0 {
		return errors.New("tuning.average_name_length must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Workers < 0 {
		return errors.New("workflow.workers must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
