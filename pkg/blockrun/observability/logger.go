// Package observability provides structured logging, metrics, and tracing
// for the block execution engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// LogSessionStart logs the start of a document processing session.
func LogSessionStart(logger *slog.Logger, sessionID string, blockCount int) {
	if logger == nil {
		return
	}
	logger.Info("session starting",
		slog.String("session_id", sessionID),
		slog.Int("blocks", blockCount),
	)
}

// LogSessionComplete logs successful session completion.
func LogSessionComplete(logger *slog.Logger, sessionID string, durationMs float64, executed int) {
	if logger == nil {
		return
	}
	logger.Info("session completed",
		slog.String("session_id", sessionID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("blocks_executed", executed),
	)
}

// LogBlockStart logs block execution start.
func LogBlockStart(logger *slog.Logger, name, kind string) {
	if logger == nil {
		return
	}
	logger.Debug("block starting",
		slog.String("block", name),
		slog.String("kind", kind),
	)
}

// LogBlockComplete logs successful block completion.
func LogBlockComplete(logger *slog.Logger, name string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("block completed",
		slog.String("block", name),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBlockError logs block execution failure.
func LogBlockError(logger *slog.Logger, name string, err error) {
	if logger == nil {
		return
	}
	logger.Error("block failed",
		slog.String("block", name),
		slog.String("error", err.Error()),
	)
}

// LogCacheHit logs a fresh-cache short circuit.
func LogCacheHit(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("cache hit",
		slog.String("block", name),
	)
}

// LogCacheError logs a cache store failure (non-fatal).
func LogCacheError(logger *slog.Logger, name, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("cache store failed",
		slog.String("block", name),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogFallback logs recovery through a fallback block.
func LogFallback(logger *slog.Logger, name, fallback string, cause error) {
	if logger == nil {
		return
	}
	logger.Warn("recovering via fallback",
		slog.String("block", name),
		slog.String("fallback", fallback),
		slog.String("cause", cause.Error()),
	)
}

// LogFallbackFailed logs a fallback block's own failure.
func LogFallbackFailed(logger *slog.Logger, name, fallback string, err error) {
	if logger == nil {
		return
	}
	logger.Error("fallback failed",
		slog.String("block", name),
		slog.String("fallback", fallback),
		slog.String("error", err.Error()),
	)
}
