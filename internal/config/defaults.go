package config

const (
	defaultLogDir                = "~/.local/share/reunite/logs"
	defaultReportDir             = "~/.local/share/reunite/reports"
	defaultAverageNameLength     = 30
	defaultMinPrefixFactor       = 0.7
	defaultTruncationStepDivisor = 20
	defaultExiftoolBinary        = "exiftool"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		Tuning: Tuning{
			AverageNameLength:     defaultAverageNameLength,
			MinPrefixFactor:       defaultMinPrefixFactor,
			TruncationStepDivisor: defaultTruncationStepDivisor,
		},
		Embed: Embed{
			Enabled:        false,
			Backup:         true,
			ExiftoolBinary: defaultExiftoolBinary,
		},
		Workflow: Workflow{
			Workers:    0,
			PreAnalyze: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
