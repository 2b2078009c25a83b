// Package logging provides centralized, structured logging for beamctl.
//
// Logging is built on uber-go/zap and is silent by default so that CLI
// output and the terminal control panel are never polluted with log
// lines. Verbosity is controlled by the BEAMCTL_LOG_LEVEL environment
// variable ("debug", "info", "warn", "error"); when it is unset a nop
// logger is installed.
//
// # Usage Example
//
//	// At program start (silent unless BEAMCTL_LOG_LEVEL is set):
//	if err := logging.InitializeFromEnv(); err != nil {
//	    fmt.Fprintf(os.Stderr, "logging init failed: %v\n", err)
//	}
//	defer logging.Sync()
//
//	// Anywhere in the codebase:
//	logging.Debug("dispatching command",
//	    zap.String("device", addr),
//	    zap.String("command", name),
//	)
//
// All log output goes to stderr, leaving stdout for command results.
package logging
