package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTuning()
	c.normalizeEmbed()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = defaultReportDir
	}
	if c.Paths.ReportDir, err = expandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTuning() {
	if c.Tuning.AverageNameLength <= 0 {
		c.Tuning.AverageNameLength = defaultAverageNameLength
	}
	if c.Tuning.MinPrefixFactor <= 0 {
		c.Tuning.MinPrefixFactor = defaultMinPrefixFactor
	}
	if c.Tuning.TruncationStepDivisor <= 0 {
		c.Tuning.TruncationStepDivisor = defaultTruncationStepDivisor
	}
}

func (c *Config) normalizeEmbed() {
	c.Embed.ExiftoolBinary = strings.TrimSpace(c.Embed.ExiftoolBinary)
	if c.Embed.ExiftoolBinary == "" {
		c.Embed.ExiftoolBinary = defaultExiftoolBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
