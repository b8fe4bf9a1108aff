package runner

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// TestCodeRunner_CanExecute tests language-aware kind matching.
func TestCodeRunner_CanExecute(t *testing.T) {
	r := NewCodeRunner()

	assert.True(t, r.CanExecute(block.New("code:python", "a", nil, "")))
	assert.True(t, r.CanExecute(block.New("code:javascript", "a", nil, "")))
	assert.True(t, r.CanExecute(block.New("code:js", "a", nil, "")))
	assert.False(t, r.CanExecute(block.New("code:ruby", "a", nil, "")), "unknown language is not claimed")
	assert.False(t, r.CanExecute(block.New("shell", "a", nil, "")))
}

// TestCodeRunner_RegisterInterpreter tests custom languages become claimable.
func TestCodeRunner_RegisterInterpreter(t *testing.T) {
	r := NewCodeRunner()
	r.RegisterInterpreter("ruby", "ruby", ".rb")

	assert.True(t, r.CanExecute(block.New("code:ruby", "a", nil, "")))
}

// TestCodeRunner_RunPython executes a real script when python3 is available.
func TestCodeRunner_RunPython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}

	r := NewCodeRunner()
	b := block.New("code:python", "calc", nil, "")

	got, err := r.Run(context.Background(), "calc", b, "print(2 + 3)", block.NewState())

	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

// TestCodeRunner_RunPythonError tests interpreter stderr surfaces.
func TestCodeRunner_RunPythonError(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}

	r := NewCodeRunner()
	b := block.New("code:python", "broken", nil, "")

	_, err := r.Run(context.Background(), "broken", b, "raise ValueError('boom')", block.NewState())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

// TestCodeRunner_RunJavaScript executes a real script when node is available.
func TestCodeRunner_RunJavaScript(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not installed")
	}

	r := NewCodeRunner()
	b := block.New("code:javascript", "calc", nil, "")

	got, err := r.Run(context.Background(), "calc", b, "console.log(2 + 3)", block.NewState())

	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

// TestCodeRunner_UnknownLanguage tests Run fails for unmapped languages.
func TestCodeRunner_UnknownLanguage(t *testing.T) {
	r := NewCodeRunner()
	b := block.New("code:ruby", "a", nil, "")

	_, err := r.Run(context.Background(), "a", b, "puts 1", block.NewState())

	assert.Error(t, err)
}
