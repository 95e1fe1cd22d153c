package ai

import "sync/atomic"

// debugLoggingEnabled gates phase-transition logging of the AI subsystem.
// Set via EnableDebugLogging() from main based on the configured log level.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard per-tick debug log calls:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("AI phase", "actor", id, "to", phase)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
