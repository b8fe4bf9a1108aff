package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// interpreter describes how one language is executed.
type interpreter struct {
	binary string
	ext    string
}

// CodeRunner executes interpreted-code blocks (code:python, code:javascript)
// by writing the content to a temp file and invoking the interpreter.
type CodeRunner struct {
	interpreters map[string]interpreter
}

// NewCodeRunner creates a code runner with Python and JavaScript support.
func NewCodeRunner() *CodeRunner {
	return &CodeRunner{
		interpreters: map[string]interpreter{
			"python":     {binary: "python3", ext: ".py"},
			"javascript": {binary: "node", ext: ".js"},
			"js":         {binary: "node", ext: ".js"},
		},
	}
}

// RegisterInterpreter adds or replaces the interpreter for a language.
func (r *CodeRunner) RegisterInterpreter(language, binary, ext string) {
	r.interpreters[strings.ToLower(language)] = interpreter{binary: binary, ext: ext}
}

// CanExecute implements Runner.
func (r *CodeRunner) CanExecute(b *block.Block) bool {
	if b.Kind != block.KindCode {
		return false
	}
	_, ok := r.interpreters[strings.ToLower(b.Language())]
	return ok
}

// Run implements Runner.
func (r *CodeRunner) Run(ctx context.Context, name string, b *block.Block, content string, _ *block.State) (string, error) {
	lang := strings.ToLower(b.Language())
	interp, ok := r.interpreters[lang]
	if !ok {
		return "", fmt.Errorf("code %s: no interpreter for language %q", name, lang)
	}

	tmp, err := os.CreateTemp("", "blockrun-*"+interp.ext)
	if err != nil {
		return "", fmt.Errorf("code %s: create temp file: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("code %s: write temp file: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("code %s: close temp file: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, interp.binary, tmp.Name())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("code %s: %w", name, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("code %s (%s): %s", name, lang, msg)
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}
