package blockrun

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
	"github.com/randalmurphal/blockrun/pkg/blockrun/cache"
	"github.com/randalmurphal/blockrun/pkg/blockrun/llm"
	"github.com/randalmurphal/blockrun/pkg/blockrun/observability"
	"github.com/randalmurphal/blockrun/pkg/blockrun/resolve"
	"github.com/randalmurphal/blockrun/pkg/blockrun/runner"
)

// Provenance records how a result was obtained.
type Provenance int

const (
	// Primary means the block's own execution produced the result.
	Primary Provenance = iota

	// Recovered means a fallback block's result substituted for a failure.
	Recovered
)

// String returns the provenance name.
func (p Provenance) String() string {
	if p == Recovered {
		return "recovered"
	}
	return "primary"
}

// Result is the outcome of executing one block.
type Result struct {
	// Output is the block's result text.
	Output string

	// Provenance distinguishes direct successes from fallback recoveries.
	Provenance Provenance

	// Via is the fallback block that produced the output when recovered.
	Via string

	// RootCause is the original failure, retained alongside any recovered
	// value so callers can audit masked errors. Nil for primary results.
	RootCause error
}

// Executor runs document blocks in dependency order with cycle detection,
// reference resolution, result caching, and fallback recovery.
//
// An Executor exclusively owns its state and is single-threaded by design:
// blocks execute one at a time in a synchronous, recursive call tree, even
// where the dependency graph would permit parallelism. Concurrent
// executors must each own independent state or be serialized externally.
//
// The context passed to Execute flows into every runner, so subprocess and
// network work honors caller cancellation; the engine itself adds no
// wall-clock bound (a block's timeout modifier is cache TTL only).
type Executor struct {
	state    *block.State
	resolver *resolve.Resolver
	registry *runner.Registry
	store    cache.Store
	settings Settings

	logger     *slog.Logger
	llmClient  llm.Client
	httpClient *http.Client

	metricsEnabled bool
	tracingEnabled bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager

	sessionID string
	now       func() time.Time
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		state:     block.NewState(),
		resolver:  resolve.New(),
		logger:    slog.Default(),
		sessionID: uuid.New().String(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = cache.NewMemoryStore()
	}
	if e.registry == nil {
		e.registry = runner.NewRegistry(runner.Defaults(e.llmClient, e.httpClient)...)
	}
	e.registry.TestMode = e.settings.TestMode

	e.metrics = observability.NoopMetrics{}
	if e.metricsEnabled {
		e.metrics = observability.NewMetricsRecorder()
	}
	e.spans = observability.NoopSpanManager{}
	if e.tracingEnabled {
		e.spans = observability.NewSpanManager()
	}

	return e
}

// policy returns the cache policy derived from the current settings.
func (e *Executor) policy() cache.Policy {
	return cache.Policy{
		Disabled:   e.settings.DisableCache,
		DefaultTTL: e.settings.DefaultTimeout,
	}
}

// debugLogger returns the logger for per-block debug events, or nil when
// debug logging is off. The observability helpers are nil-safe.
func (e *Executor) debugLogger() *slog.Logger {
	if !e.settings.Debug {
		return nil
	}
	return e.logger
}

// Register upserts a block under name. Registration is idempotent; it
// derives the block's kind and typed modifiers, wires its fallback
// modifier, and recurses into named children.
func (e *Executor) Register(name string, b *block.Block) {
	e.state.Register(name, b)
	for _, child := range b.Children {
		if child.Name != "" {
			e.Register(child.Name, child)
		}
	}
}

// RegisterDocument begins a new processing cycle: prior blocks, fallbacks,
// and non-persisted outputs are dropped (persisted `*_response` outputs and
// cache entries survive), then every named block in the document is
// registered.
func (e *Executor) RegisterDocument(blocks []*block.Block) {
	e.state.Reset()
	for _, b := range blocks {
		if b.Name != "" {
			e.Register(b.Name, b)
		}
	}
}

// SetFallback registers fb as the recovery block for name, overriding any
// fallback modifier.
func (e *Executor) SetFallback(name, fb string) {
	e.state.SetFallback(name, fb)
}

// Outputs returns a read-only copy of the outputs table, including derived
// .results/_results/_error/_error_response keys.
func (e *Executor) Outputs() map[string]string {
	return e.state.Outputs()
}

// State exposes the executor's block state for inspection.
func (e *Executor) State() *block.State {
	return e.state
}

// Resolve expands references in content against the current outputs.
func (e *Executor) Resolve(content string) string {
	return e.resolver.Resolve(content, e.state)
}

// Execute runs the named block and its dependencies, returning the result
// text. A fallback recovery returns the fallback's output as a success;
// use ExecuteResult to distinguish recovered results.
func (e *Executor) Execute(ctx context.Context, name string) (string, error) {
	res, err := e.ExecuteResult(ctx, name)
	return res.Output, err
}

// ExecuteResult runs the named block and reports the result with its
// provenance.
func (e *Executor) ExecuteResult(ctx context.Context, name string) (Result, error) {
	return e.executeBlock(ctx, name)
}

// executeBlock is the recursive core of the engine.
func (e *Executor) executeBlock(ctx context.Context, name string) (Result, error) {
	b, ok := e.state.Block(name)
	if !ok {
		return Result{}, &NotFoundError{Name: name}
	}

	// Fail-fast cycle detection: a block already mid-execution is never
	// re-entered and no runner is invoked.
	if e.state.InProgress(name) {
		return Result{}, &CycleError{Name: name, Stack: e.state.ProcessingStack()}
	}

	// A fresh cache entry short-circuits everything, dependencies included.
	policy := e.policy()
	if policy.Cacheable(b) {
		if entry, err := e.store.Get(name); err == nil {
			if entry.Fresh(e.now(), policy.TTL(b)) {
				observability.LogCacheHit(e.debugLogger(), name)
				e.metrics.RecordCacheHit(ctx, name)
				e.spans.AddSpanEvent(ctx, "cache_hit", attribute.String("block", name))
				e.state.RecordResult(name, entry.Result)
				b.Content = entry.Result
				return Result{Output: entry.Result}, nil
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			observability.LogCacheError(e.logger, name, "get", err)
		}
	}

	e.state.Push(name)
	output, runErr := e.runPhases(ctx, name, b)
	// The pop is unconditional and happens before fallback recovery, so a
	// fallback chain that leads back to this block re-executes it rather
	// than reporting a stale cycle.
	e.state.Pop(name)

	if runErr != nil {
		return e.fail(ctx, name, b, runErr)
	}

	e.state.RecordResult(name, output)
	b.Content = output

	// Question responses persist across document re-processing cycles.
	if b.Kind == block.KindQuestion {
		e.state.SetOutput(name+"_response", output)
	}

	if policy.Cacheable(b) {
		entry := cache.Entry{Result: output, CapturedAt: e.now()}
		if err := e.store.Put(name, entry); err != nil {
			// Caching is best-effort; a store failure never fails the block.
			observability.LogCacheError(e.logger, name, "put", err)
		}
	}

	return Result{Output: output}, nil
}

// runPhases executes a pushed block's dependencies, resolution, and runner
// dispatch. Errors come back already normalized into the engine taxonomy.
func (e *Executor) runPhases(ctx context.Context, name string, b *block.Block) (string, error) {
	// Dependencies run first, each with its own fallback and cycle
	// handling. The first unrecoverable failure aborts this block.
	for _, dep := range b.Mods.Depends {
		if _, err := e.executeBlock(ctx, dep); err != nil {
			return "", err
		}
	}

	resolved := e.resolver.Resolve(b.Content, e.state)

	observability.LogBlockStart(e.debugLogger(), name, b.Kind.String())
	blockCtx := ctx
	var span trace.Span
	if e.tracingEnabled {
		blockCtx, span = e.spans.StartBlockSpan(ctx, name, b.Kind.String())
	}
	start := e.now()

	output, runErr := e.registry.Dispatch(blockCtx, name, b, resolved, e.state)

	duration := e.now().Sub(start)
	e.metrics.RecordBlockExecution(blockCtx, name, b.Kind.String(), duration, runErr)
	if e.tracingEnabled {
		e.spans.EndSpanWithError(span, runErr)
	}

	if runErr != nil {
		return "", e.normalize(name, b, runErr)
	}

	observability.LogBlockComplete(e.debugLogger(), name, float64(duration.Milliseconds()))
	return output, nil
}

// normalize maps runner failures into the engine's error taxonomy.
// Errors already in the taxonomy (dependency failures) pass through.
func (e *Executor) normalize(name string, b *block.Block, err error) error {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return &MissingCredentialError{Name: name, Provider: b.Mods.Provider}
	}
	return &ExecutionError{Name: name, Err: err}
}

// fail records a block failure and attempts fallback recovery.
//
// Bookkeeping always happens: the message lands under name_error and an
// error-response block is synthesized and registered. Cycle errors are
// fail-fast and never recovered. Otherwise a registered fallback executes
// and its success masks the failure with the root cause retained in the
// Result; a fallback's own failure propagates the original error.
func (e *Executor) fail(ctx context.Context, name string, b *block.Block, cause error) (Result, error) {
	observability.LogBlockError(e.logger, name, cause)
	e.state.RecordError(name, cause.Error())
	e.synthesizeErrorResponse(name, b, cause)

	if errors.Is(cause, ErrCycle) {
		return Result{}, cause
	}

	fb, ok := e.state.Fallback(name)
	if !ok {
		return Result{}, cause
	}

	observability.LogFallback(e.logger, name, fb, cause)
	fbRes, fbErr := e.executeBlock(ctx, fb)
	e.metrics.RecordFallback(ctx, name, fbErr == nil)
	if fbErr != nil {
		observability.LogFallbackFailed(e.logger, name, fb, fbErr)
		return Result{}, cause
	}

	e.spans.AddSpanEvent(ctx, "fallback_recovered",
		attribute.String("block", name), attribute.String("via", fb))
	return Result{
		Output:     fbRes.Output,
		Provenance: Recovered,
		Via:        fb,
		RootCause:  cause,
	}, nil
}

// synthesizeErrorResponse registers the error-carrier block for a failure
// and stores its output. It copies the failed block's presentation
// modifiers and tags itself with for=<name>.
func (e *Executor) synthesizeErrorResponse(name string, b *block.Block, cause error) {
	errName := name + "_error_response"

	var mods []block.Modifier
	for _, key := range []string{"format", "display", "max_lines", "trim"} {
		if v, ok := b.Modifier(key); ok {
			mods = append(mods, block.Modifier{Key: key, Value: v})
		}
	}
	mods = append(mods, block.Modifier{Key: "for", Value: name})

	eb := block.New("error-response", errName, mods, cause.Error())
	e.state.Register(errName, eb)
	e.state.SetOutput(errName, cause.Error())
}

// BlockResult pairs a block name with its execution outcome.
type BlockResult struct {
	Name   string
	Result Result
	Err    error
}

// ExecuteAll runs every registered named block in registration order,
// continuing past failures. Blocks already executed as dependencies or
// satisfied by cache short-circuit through the usual bookkeeping path.
func (e *Executor) ExecuteAll(ctx context.Context) []BlockResult {
	names := e.state.Names()
	observability.LogSessionStart(e.logger, e.sessionID, len(names))

	sessionCtx := ctx
	var span trace.Span
	if e.tracingEnabled {
		sessionCtx, span = e.spans.StartSessionSpan(ctx, e.sessionID)
	}

	start := e.now()
	results := make([]BlockResult, 0, len(names))
	var firstErr error
	executed := 0

	for _, name := range names {
		// A block already executed as someone's dependency has its output
		// recorded; re-running it would execute its own result.
		if _, done := e.state.Output(name); done {
			continue
		}
		res, err := e.ExecuteResult(sessionCtx, name)
		results = append(results, BlockResult{Name: name, Result: res, Err: err})
		if err == nil {
			executed++
		} else if firstErr == nil {
			firstErr = err
		}
	}

	duration := e.now().Sub(start)
	e.metrics.RecordSession(sessionCtx, firstErr == nil, duration)
	if e.tracingEnabled {
		e.spans.EndSpanWithError(span, firstErr)
	}
	observability.LogSessionComplete(e.logger, e.sessionID, float64(duration.Milliseconds()), executed)

	return results
}
