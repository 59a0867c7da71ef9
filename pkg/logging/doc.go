// Package logging provides structured logging utilities for stackctl.
//
// # Overview
//
// This package wraps the standard library slog package with stackctl defaults
// so every component logs the same way. It supports environment-based log
// level configuration, module/version context injection, and source location
// tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: every spawned docker command and every poll evaluation
//   - INFO: orchestration steps (default)
//   - WARN/WARNING: recoverable conditions, e.g. an old engine version
//   - ERROR: failures that abort the run
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("stackctl", "v1.0.0")
//	    slog.Info("deploying stack", "stack", "my-app")
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("stackctl", "v1.0.0", "debug")
//
// # Environment Configuration
//
//	LOG_LEVEL=debug stackctl ./my-app
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "stack deployed",
//	    "module": "stackctl",
//	    "version": "v1.0.0",
//	    "run_id": "0b7c9a1e-...",
//	    "stack": "my-app"
//	}
package logging
