// Package logging builds slog loggers for stitch-sync.
//
// Two output formats are supported: a compact console format for
// interactive sessions and JSON for machine consumption. Components
// attach themselves through NewComponentLogger so every record carries
// a "component" attribute.
package logging
