package blockrun

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/randalmurphal/blockrun/pkg/blockrun/cache"
	"github.com/randalmurphal/blockrun/pkg/blockrun/llm"
	"github.com/randalmurphal/blockrun/pkg/blockrun/runner"
)

// Option configures an Executor.
type Option func(*Executor)

// WithSettings sets the engine-wide toggles.
//
// Example:
//
//	exec := blockrun.NewExecutor(blockrun.WithSettings(blockrun.Settings{
//	    TestMode: true,
//	}))
func WithSettings(s Settings) Option {
	return func(e *Executor) {
		e.settings = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithLLM sets the LLM client used by question blocks.
// Without one, question blocks fail unless test mode bypasses them.
func WithLLM(client llm.Client) Option {
	return func(e *Executor) {
		e.llmClient = client
	}
}

// WithHTTPClient sets the HTTP client used by api blocks.
// Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		e.httpClient = client
	}
}

// WithCacheStore sets the cache store. Defaults to an in-memory store;
// use cache.NewSQLiteStore for results that survive restarts.
func WithCacheStore(store cache.Store) Option {
	return func(e *Executor) {
		e.store = store
	}
}

// WithRunners replaces the built-in runner set. Dispatch order is the
// argument order.
func WithRunners(runners ...runner.Runner) Option {
	return func(e *Executor) {
		e.registry = runner.NewRegistry(runners...)
	}
}

// WithMetrics enables OpenTelemetry metrics recording.
func WithMetrics(enabled bool) Option {
	return func(e *Executor) {
		e.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry span creation.
func WithTracing(enabled bool) Option {
	return func(e *Executor) {
		e.tracingEnabled = enabled
	}
}

// WithSessionID overrides the auto-generated session identifier used in
// logs and spans.
func WithSessionID(id string) Option {
	return func(e *Executor) {
		e.sessionID = id
	}
}

// withClock overrides the time source for cache freshness. Test hook.
func withClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}
