package runner

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"os/exec"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// ShellRunner executes block content through the OS shell.
// stdout is the result on exit 0; a non-zero exit fails with stderr.
type ShellRunner struct {
	shell string
}

// ShellOption configures ShellRunner.
type ShellOption func(*ShellRunner)

// NewShellRunner creates a shell runner using /bin/sh unless overridden.
func NewShellRunner(opts ...ShellOption) *ShellRunner {
	r := &ShellRunner{shell: "/bin/sh"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithShell sets the shell binary.
func WithShell(path string) ShellOption {
	return func(r *ShellRunner) { r.shell = path }
}

// CanExecute implements Runner.
func (r *ShellRunner) CanExecute(b *block.Block) bool {
	return b.Kind == block.KindShell
}

// Run implements Runner.
func (r *ShellRunner) Run(ctx context.Context, name string, _ *block.Block, content string, _ *block.State) (string, error) {
	cmd := exec.CommandContext(ctx, r.shell, "-c", content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("shell %s: %w", name, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("shell %s: %s", name, msg)
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}
