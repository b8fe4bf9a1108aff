package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// ConditionalRunner gates a block's content on another block's output.
//
// The referenced block is named by a `condition` modifier, falling back to
// the first dependency. Its output must already exist; conditionals never
// trigger execution themselves. An output of true/1/yes (case-insensitive)
// satisfies the gate and yields the block's own resolved content, anything
// else yields the empty string.
type ConditionalRunner struct{}

// NewConditionalRunner creates a ConditionalRunner.
func NewConditionalRunner() *ConditionalRunner {
	return &ConditionalRunner{}
}

// CanExecute implements Runner.
func (r *ConditionalRunner) CanExecute(b *block.Block) bool {
	return b.Kind == block.KindConditional
}

// Run implements Runner.
func (r *ConditionalRunner) Run(_ context.Context, name string, b *block.Block, content string, st *block.State) (string, error) {
	target, _ := b.Modifier("condition")
	if target == "" && len(b.Mods.Depends) > 0 {
		target = b.Mods.Depends[0]
	}
	if target == "" {
		return "", fmt.Errorf("conditional %s: no condition target", name)
	}

	output, ok := st.Output(target)
	if !ok {
		return "", fmt.Errorf("conditional %s: block %q has not executed yet", name, target)
	}

	if satisfied(output) {
		return content, nil
	}
	return "", nil
}

// satisfied accepts true/1/yes only. Gate outputs are narrower than
// modifier truthiness, which also recognizes "on".
func satisfied(output string) bool {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
