// Package logging provides structured logging for BenchFlow Core.
//
// It wraps log/slog with configuration-driven level filtering, output
// format selection (JSON or text), and default fields identifying the
// service and version. All loggers are safe for concurrent use.
package logging
