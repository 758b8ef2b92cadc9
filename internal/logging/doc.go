// Package logging builds slog loggers for reunite.
//
// Two output formats are supported: a compact console format for interactive
// runs and JSON for machine consumption. Standardized field keys keep run and
// directory identifiers consistent across components.
package logging
