package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CLIClient implements Client by shelling out to a provider CLI binary
// (e.g. "claude"). It requires no API key; the binary carries its own
// credentials.
type CLIClient struct {
	path    string
	model   string
	workdir string
	timeout time.Duration
}

// CLIOption configures CLIClient.
type CLIOption func(*CLIClient)

// NewCLIClient creates a CLI-backed client.
// Assumes "claude" is available in PATH unless overridden with WithPath.
func NewCLIClient(opts ...CLIOption) *CLIClient {
	c := &CLIClient{
		path:    "claude",
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPath sets the path to the CLI binary.
func WithPath(path string) CLIOption {
	return func(c *CLIClient) { c.path = path }
}

// WithModel sets the default model.
func WithModel(model string) CLIOption {
	return func(c *CLIClient) { c.model = model }
}

// WithWorkdir sets the working directory for CLI commands.
func WithWorkdir(dir string) CLIOption {
	return func(c *CLIClient) { c.workdir = dir }
}

// WithTimeout sets the default timeout for CLI commands.
func WithTimeout(d time.Duration) CLIOption {
	return func(c *CLIClient) { c.timeout = d }
}

// Complete implements Client.
func (c *CLIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.path, c.buildArgs(req)...)
	if c.workdir != "" {
		cmd.Dir = c.workdir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Context cancellation takes precedence over exit status.
		if ctx.Err() != nil {
			return "", &Error{Op: "complete", Provider: req.Provider, Err: ctx.Err()}
		}
		return "", &Error{
			Op:       "complete",
			Provider: req.Provider,
			Err:      fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// buildArgs constructs CLI arguments from a request.
func (c *CLIClient) buildArgs(req Request) []string {
	args := []string{"--print"}

	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}

	// Model priority: request > client default
	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", fmt.Sprintf("%d", req.MaxTokens))
	}

	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		args = append(args, "-p", prompt)
	}

	return args
}
