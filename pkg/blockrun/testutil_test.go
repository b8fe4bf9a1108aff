package blockrun

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
	"github.com/randalmurphal/blockrun/pkg/blockrun/runner"
)

// scriptRunner claims every block and returns scripted outputs or errors
// keyed by block name, counting invocations. Unscripted names echo their
// resolved content.
type scriptRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   map[string]int
}

func newScriptRunner() *scriptRunner {
	return &scriptRunner{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (s *scriptRunner) CanExecute(_ *block.Block) bool { return true }

func (s *scriptRunner) Run(_ context.Context, name string, _ *block.Block, content string, _ *block.State) (string, error) {
	s.calls[name]++
	if err, ok := s.errs[name]; ok {
		return "", err
	}
	if out, ok := s.outputs[name]; ok {
		return out, nil
	}
	return content, nil
}

func (s *scriptRunner) totalCalls() int {
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// fakeClock is a settable time source for cache freshness tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newScriptedExecutor wires a scriptRunner as the sole runner, with any
// further options applied after it.
func newScriptedExecutor(sr *scriptRunner, opts ...Option) *Executor {
	all := append([]Option{WithRunners(sr)}, opts...)
	return NewExecutor(all...)
}

// mods is shorthand for building a modifier list.
func mods(kv ...string) []block.Modifier {
	var out []block.Modifier
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, block.Modifier{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

var _ runner.Runner = (*scriptRunner)(nil)
