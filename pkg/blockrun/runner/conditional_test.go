package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// TestConditionalRunner_TruthyGate tests content passes when the condition
// output is truthy.
func TestConditionalRunner_TruthyGate(t *testing.T) {
	st := block.NewState()
	st.SetOutput("check", "true")

	b := block.New("conditional", "gate", []block.Modifier{
		{Key: "condition", Value: "check"},
	}, "guarded content")

	got, err := NewConditionalRunner().Run(context.Background(), "gate", b, "guarded content", st)

	require.NoError(t, err)
	assert.Equal(t, "guarded content", got)
}

// TestConditionalRunner_FalsyGate tests a falsy output yields empty.
func TestConditionalRunner_FalsyGate(t *testing.T) {
	st := block.NewState()
	st.SetOutput("check", "no")

	b := block.New("conditional", "gate", []block.Modifier{
		{Key: "condition", Value: "check"},
	}, "guarded content")

	got, err := NewConditionalRunner().Run(context.Background(), "gate", b, "guarded content", st)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

// TestConditionalRunner_GateLiterals tests exactly true/1/yes satisfy the
// gate; "on" enables modifiers but never a gate.
func TestConditionalRunner_GateLiterals(t *testing.T) {
	r := NewConditionalRunner()
	b := block.New("conditional", "gate", []block.Modifier{
		{Key: "condition", Value: "check"},
	}, "content")

	for output, want := range map[string]string{
		"TRUE": "content",
		" 1 ":  "content",
		"Yes":  "content",
		"on":   "",
		"ON":   "",
	} {
		st := block.NewState()
		st.SetOutput("check", output)

		got, err := r.Run(context.Background(), "gate", b, "content", st)

		require.NoError(t, err)
		assert.Equal(t, want, got, "output %q", output)
	}
}

// TestConditionalRunner_FirstDependencyDefault tests the condition target
// falls back to the first dependency.
func TestConditionalRunner_FirstDependencyDefault(t *testing.T) {
	st := block.NewState()
	st.SetOutput("dep", "1")

	b := block.New("conditional", "gate", []block.Modifier{
		{Key: "depends", Value: "dep, other"},
	}, "content")

	got, err := NewConditionalRunner().Run(context.Background(), "gate", b, "content", st)

	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

// TestConditionalRunner_TargetNotExecuted tests conditionals never trigger
// execution themselves.
func TestConditionalRunner_TargetNotExecuted(t *testing.T) {
	b := block.New("conditional", "gate", []block.Modifier{
		{Key: "condition", Value: "never_ran"},
	}, "content")

	_, err := NewConditionalRunner().Run(context.Background(), "gate", b, "content", block.NewState())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "never_ran")
	assert.Contains(t, err.Error(), "has not executed yet")
}

// TestConditionalRunner_NoTarget tests a gate without any target fails.
func TestConditionalRunner_NoTarget(t *testing.T) {
	b := block.New("conditional", "gate", nil, "content")

	_, err := NewConditionalRunner().Run(context.Background(), "gate", b, "content", block.NewState())

	assert.Error(t, err)
}

// TestConditionalRunner_CanExecute tests kind matching.
func TestConditionalRunner_CanExecute(t *testing.T) {
	r := NewConditionalRunner()

	assert.True(t, r.CanExecute(block.New("conditional", "a", nil, "")))
	assert.True(t, r.CanExecute(block.New("if", "a", nil, "")))
	assert.False(t, r.CanExecute(block.New("data", "a", nil, "")))
}
