// Package runner provides pluggable per-block-kind execution strategies
// and the ordered registry that dispatches to them.
//
// Dispatch walks the registered runners in order and uses the first whose
// CanExecute matches; blocks no runner claims pass through with their
// resolved content unchanged. Every runner is subject to a uniform
// test-mode bypass that returns a deterministic response with zero side
// effects, since real runners shell out to processes or the network.
package runner

import (
	"context"
	"net/http"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
	"github.com/randalmurphal/blockrun/pkg/blockrun/llm"
)

// CannedTestResponse is returned by the test-mode bypass when the block
// has no test_response modifier.
const CannedTestResponse = "test mode response"

// Runner executes one category of block.
type Runner interface {
	// CanExecute reports whether this runner handles the block.
	CanExecute(b *block.Block) bool

	// Run executes the block. content is the block body after reference
	// resolution; st gives access to prior outputs.
	Run(ctx context.Context, name string, b *block.Block, content string, st *block.State) (string, error)
}

// Registry dispatches blocks to runners in registration order.
type Registry struct {
	runners []Runner

	// TestMode forces the deterministic bypass for every block,
	// regardless of per-block test_mode modifiers.
	TestMode bool
}

// NewRegistry creates a registry with the given runners, in dispatch order.
func NewRegistry(runners ...Runner) *Registry {
	return &Registry{runners: runners}
}

// Register appends a runner to the dispatch order.
func (r *Registry) Register(runner Runner) {
	r.runners = append(r.runners, runner)
}

// Dispatch executes the block with the first matching runner.
// Unmatched blocks pass through: the resolved content is the result.
func (r *Registry) Dispatch(ctx context.Context, name string, b *block.Block, content string, st *block.State) (string, error) {
	for _, runner := range r.runners {
		if !runner.CanExecute(b) {
			continue
		}
		if resp, ok := Bypass(b, r.TestMode); ok {
			return resp, nil
		}
		return runner.Run(ctx, name, b, content, st)
	}
	return content, nil
}

// Bypass returns the deterministic test-mode response for a block, and
// whether the bypass applies (block-level test_mode modifier or the
// engine-wide flag).
func Bypass(b *block.Block, globalTestMode bool) (string, bool) {
	if !globalTestMode && !b.Mods.TestMode {
		return "", false
	}
	if b.Mods.TestResponse != "" {
		return b.Mods.TestResponse, true
	}
	return CannedTestResponse, true
}

// Defaults returns the built-in runners in their standard dispatch order.
// llmClient may be nil when no question blocks will execute; httpClient
// nil means http.DefaultClient.
func Defaults(llmClient llm.Client, httpClient *http.Client) []Runner {
	return []Runner{
		NewShellRunner(),
		NewCodeRunner(),
		NewAPIRunner(httpClient),
		NewConditionalRunner(),
		NewQuestionRunner(llmClient),
		NewDataRunner(),
	}
}

// DataRunner handles literal data and results-carrier blocks: the resolved
// content is the result.
type DataRunner struct{}

// NewDataRunner creates a DataRunner.
func NewDataRunner() *DataRunner {
	return &DataRunner{}
}

// CanExecute implements Runner.
func (d *DataRunner) CanExecute(b *block.Block) bool {
	return b.Kind == block.KindData || b.Kind == block.KindResults
}

// Run implements Runner.
func (d *DataRunner) Run(_ context.Context, _ string, _ *block.Block, content string, _ *block.State) (string, error) {
	return content, nil
}
