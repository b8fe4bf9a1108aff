/*
Package blockrun executes documents composed of named, typed blocks that
reference each other's outputs and declare explicit dependencies.

# Overview

blockrun is the execution engine for runnable documents: a parser (not part
of this module) turns raw text into blocks, and the engine runs them in
dependency order with cycle detection, result caching, fallback-based
failure recovery, and recursive reference resolution across block outputs.

Block kinds: data, shell, interpreted code (Python, JavaScript), api
(HTTP), conditional, and question (LLM). Unrecognized kinds pass through
with their resolved content as the result.

# Basic Usage

Register blocks, then execute by name. Dependencies are declared with
depends/requires modifiers and run first, so their outputs are available
when the block's references resolve:

	exec := blockrun.NewExecutor()

	exec.Register("greeting", block.New("data", "greeting", nil, "Hello"))

	mods := []block.Modifier{{Key: "depends", Value: "greeting"}}
	exec.Register("msg", block.New("data", "msg", mods, "${greeting}, world!"))

	result, err := exec.Execute(context.Background(), "msg")
	// result: "Hello, world!"

# References

Block content may reference prior outputs inline or in tag form:

	${fetch}
	${fetch:format=json,limit=20}
	<ref target="fetch" format="code"/>

Missing targets resolve to the reference's fallback modifier, or to an
explicit "[unresolved: fetch]" marker - never a silent empty string.

# Caching

Blocks with a truthy cache_result modifier are cached for their timeout
modifier (seconds), the configured default, or 600s. A fresh entry
short-circuits execution entirely. The timeout is a cache TTL only; the
engine never cancels in-flight work - pass a context with a deadline for
that.

	store, _ := cache.NewSQLiteStore("./blockrun-cache.db")
	exec := blockrun.NewExecutor(blockrun.WithCacheStore(store))

# Fallbacks

A block with a fallback modifier recovers through the named block:

	execute("risky") -> risky fails -> fallback "safe" runs -> Ok(safe's output)

The failure is still recorded under risky_error and a synthesized
error-response block; ExecuteResult reports Recovered provenance with the
root cause retained.

# Error Handling

Errors carry block context and support errors.Is:

	_, err := exec.Execute(ctx, "a")
	if errors.Is(err, blockrun.ErrCycle) { ... }

	var execErr *blockrun.ExecutionError
	if errors.As(err, &execErr) { ... }

# Concurrency

The engine is single-threaded and synchronous by design: one recursive
call tree, no parallel execution of independent blocks. An Executor owns
its state exclusively; share one only behind external serialization.

# Subpackages

  - block: block model, kinds, typed modifiers, executor state
  - resolve: reference grammar and formatting pipeline
  - runner: per-kind execution strategies and the dispatch registry
  - llm: LLM client contract (CLI- and HTTP-backed)
  - cache: cacheability policy and entry stores (memory, SQLite)
  - config: typed config maps and file loaders
  - observability: logging, metrics, and tracing helpers
*/
package blockrun
